package postgres

import (
	"context"
	"fmt"

	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"gorm.io/gorm"
)

type ProfilePostgreSQL struct {
	db *gorm.DB
}

func NewProfilePostgreSQL(db *gorm.DB) repositories.ProfileRepository {
	return &ProfilePostgreSQL{db: db}
}

func (p *ProfilePostgreSQL) CreateTeacher(ctx context.Context, profile *models.TeacherProfile) error {
	if err := p.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create teacher profile: %w", err)
	}
	return nil
}

func (p *ProfilePostgreSQL) CreateStudent(ctx context.Context, profile *models.StudentProfile) error {
	if err := p.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create student profile: %w", err)
	}
	return nil
}

func (p *ProfilePostgreSQL) GetTeacherByUser(ctx context.Context, userID uint) (*models.TeacherProfile, error) {
	var profile models.TeacherProfile
	err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *ProfilePostgreSQL) GetStudentByUser(ctx context.Context, userID uint) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := p.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *ProfilePostgreSQL) UpdateTeacher(ctx context.Context, profile *models.TeacherProfile) error {
	if err := p.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update teacher profile: %w", err)
	}
	return nil
}

func (p *ProfilePostgreSQL) UpdateStudent(ctx context.Context, profile *models.StudentProfile) error {
	if err := p.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to update student profile: %w", err)
	}
	return nil
}

func (p *ProfilePostgreSQL) ListStudents(ctx context.Context) ([]*models.StudentProfile, error) {
	var profiles []*models.StudentProfile
	err := p.db.WithContext(ctx).
		Order("roll ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list student profiles: %w", err)
	}
	return profiles, nil
}
