package postgres

import (
	"context"
	"fmt"

	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"gorm.io/gorm"
)

type ClassroomPostgreSQL struct {
	db *gorm.DB
}

func NewClassroomPostgreSQL(db *gorm.DB) repositories.ClassroomRepository {
	return &ClassroomPostgreSQL{db: db}
}

func (c *ClassroomPostgreSQL) listQuery(ctx context.Context, filters repositories.ResourceFilters) *gorm.DB {
	query := c.db.WithContext(ctx)
	if filters.Semester != nil {
		query = query.Where("semester = ?", *filters.Semester)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}
	return query.Order("created_at DESC")
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint) error {
	var model T
	result := db.WithContext(ctx).Delete(&model, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete resource: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ===== ROUTINES =====

func (c *ClassroomPostgreSQL) CreateRoutine(ctx context.Context, routine *models.Routine) error {
	if err := c.db.WithContext(ctx).Create(routine).Error; err != nil {
		return fmt.Errorf("failed to create routine: %w", err)
	}
	return nil
}

func (c *ClassroomPostgreSQL) GetRoutine(ctx context.Context, id uint) (*models.Routine, error) {
	var routine models.Routine
	if err := c.db.WithContext(ctx).First(&routine, id).Error; err != nil {
		return nil, err
	}
	return &routine, nil
}

func (c *ClassroomPostgreSQL) ListRoutines(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Routine, error) {
	var routines []*models.Routine
	if err := c.listQuery(ctx, filters).Find(&routines).Error; err != nil {
		return nil, fmt.Errorf("failed to list routines: %w", err)
	}
	return routines, nil
}

func (c *ClassroomPostgreSQL) UpdateRoutine(ctx context.Context, routine *models.Routine) error {
	if err := c.db.WithContext(ctx).Save(routine).Error; err != nil {
		return fmt.Errorf("failed to update routine: %w", err)
	}
	return nil
}

func (c *ClassroomPostgreSQL) DeleteRoutine(ctx context.Context, id uint) error {
	return deleteByID[models.Routine](ctx, c.db, id)
}

// ===== NOTICES =====

func (c *ClassroomPostgreSQL) CreateNotice(ctx context.Context, notice *models.Notice) error {
	if err := c.db.WithContext(ctx).Create(notice).Error; err != nil {
		return fmt.Errorf("failed to create notice: %w", err)
	}
	return nil
}

func (c *ClassroomPostgreSQL) GetNotice(ctx context.Context, id uint) (*models.Notice, error) {
	var notice models.Notice
	if err := c.db.WithContext(ctx).First(&notice, id).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

func (c *ClassroomPostgreSQL) ListNotices(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Notice, error) {
	var notices []*models.Notice
	query := c.db.WithContext(ctx).Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}
	if err := query.Find(&notices).Error; err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}
	return notices, nil
}

func (c *ClassroomPostgreSQL) UpdateNotice(ctx context.Context, notice *models.Notice) error {
	if err := c.db.WithContext(ctx).Save(notice).Error; err != nil {
		return fmt.Errorf("failed to update notice: %w", err)
	}
	return nil
}

func (c *ClassroomPostgreSQL) DeleteNotice(ctx context.Context, id uint) error {
	return deleteByID[models.Notice](ctx, c.db, id)
}

// ===== CLASSES =====

func (c *ClassroomPostgreSQL) CreateClass(ctx context.Context, class *models.Class) error {
	if err := c.db.WithContext(ctx).Create(class).Error; err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}
	return nil
}

func (c *ClassroomPostgreSQL) GetClass(ctx context.Context, id uint) (*models.Class, error) {
	var class models.Class
	if err := c.db.WithContext(ctx).First(&class, id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (c *ClassroomPostgreSQL) ListClasses(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Class, error) {
	var classes []*models.Class
	if err := c.listQuery(ctx, filters).Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}

func (c *ClassroomPostgreSQL) UpdateClass(ctx context.Context, class *models.Class) error {
	if err := c.db.WithContext(ctx).Save(class).Error; err != nil {
		return fmt.Errorf("failed to update class: %w", err)
	}
	return nil
}

func (c *ClassroomPostgreSQL) DeleteClass(ctx context.Context, id uint) error {
	return deleteByID[models.Class](ctx, c.db, id)
}

// ===== ASSIGNMENTS =====

func (c *ClassroomPostgreSQL) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if err := c.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (c *ClassroomPostgreSQL) GetAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := c.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (c *ClassroomPostgreSQL) ListAssignments(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	if err := c.listQuery(ctx, filters).Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (c *ClassroomPostgreSQL) UpdateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if err := c.db.WithContext(ctx).Save(assignment).Error; err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	return nil
}

func (c *ClassroomPostgreSQL) DeleteAssignment(ctx context.Context, id uint) error {
	return deleteByID[models.Assignment](ctx, c.db, id)
}
