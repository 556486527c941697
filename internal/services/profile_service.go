package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lzytourist/digital-classroom/internal/cache"
	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"github.com/lzytourist/digital-classroom/internal/validator"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	studentsCacheKey = "students:by-semester"
	studentsCacheTTL = 5 * time.Minute
)

// ProfileService owns role profiles and the student roster views.
type ProfileService interface {
	GetProfile(ctx context.Context, user *models.User) (interface{}, error)
	UpdateProfile(ctx context.Context, user *models.User, req *UpdateProfileRequest) (interface{}, error)
	StudentsBySemester(ctx context.Context, actor *models.User) (map[models.Semester][]*models.StudentProfile, error)
	ExportStudentRoster(ctx context.Context, actor *models.User) ([]byte, error)
}

type profileService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     cache.CacheService
}

func NewProfileService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	cacheService cache.CacheService,
) ProfileService {
	return &profileService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		cache:     cacheService,
	}
}

type UpdateProfileRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=255"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Department *string `json:"department" validate:"omitempty,max=255"`
	BloodGroup *string `json:"blood_group" validate:"omitempty,max=5"`

	// Teacher fields
	Designation *string `json:"designation" validate:"omitempty,max=255"`
	TeacherID   *string `json:"teacher_id" validate:"omitempty,max=50"`

	// Student fields
	Roll             *int    `json:"roll" validate:"omitempty,min=0"`
	Semester         *string `json:"semester" validate:"omitempty,semester"`
	Section          *string `json:"section" validate:"omitempty,max=50"`
	StudentID        *string `json:"student_id" validate:"omitempty,max=50"`
	Father           *string `json:"father" validate:"omitempty,max=255"`
	Mother           *string `json:"mother" validate:"omitempty,max=255"`
	FatherPhone      *string `json:"father_phone" validate:"omitempty,max=15"`
	MotherPhone      *string `json:"mother_phone" validate:"omitempty,max=15"`
	PresentAddress   *string `json:"present_address" validate:"omitempty,max=255"`
	PermanentAddress *string `json:"permanent_address" validate:"omitempty,max=255"`
}

// GetProfile returns the role-appropriate profile for the user. Admins have
// no profile shape.
func (s *profileService) GetProfile(ctx context.Context, user *models.User) (interface{}, error) {
	switch user.Role {
	case models.RoleTeacher:
		profile, err := s.repo.Profile().GetTeacherByUser(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProfileNotFound
			}
			return nil, err
		}
		return profile, nil
	case models.RoleStudent:
		profile, err := s.repo.Profile().GetStudentByUser(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProfileNotFound
			}
			return nil, err
		}
		return profile, nil
	default:
		return nil, ErrInvalidRole
	}
}

// UpdateProfile applies a partial update to the caller's own profile and
// stamps updated_by. Fields for the other role's shape are ignored.
func (s *profileService) UpdateProfile(ctx context.Context, user *models.User, req *UpdateProfileRequest) (interface{}, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	switch user.Role {
	case models.RoleTeacher:
		return s.updateTeacherProfile(ctx, user, req)
	case models.RoleStudent:
		return s.updateStudentProfile(ctx, user, req)
	default:
		return nil, ErrInvalidRole
	}
}

func (s *profileService) updateTeacherProfile(ctx context.Context, user *models.User, req *UpdateProfileRequest) (*models.TeacherProfile, error) {
	profile, err := s.repo.Profile().GetTeacherByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Email != nil {
		profile.Email = req.Email
	}
	if req.Department != nil {
		profile.Department = req.Department
	}
	if req.Designation != nil {
		profile.Designation = req.Designation
	}
	if req.TeacherID != nil {
		profile.TeacherID = req.TeacherID
	}
	if req.BloodGroup != nil {
		profile.BloodGroup = req.BloodGroup
	}
	profile.UpdatedByID = &user.ID

	if err := s.repo.Profile().UpdateTeacher(ctx, profile); err != nil {
		return nil, err
	}

	s.auditProfileUpdate(ctx, user)
	return profile, nil
}

func (s *profileService) updateStudentProfile(ctx context.Context, user *models.User, req *UpdateProfileRequest) (*models.StudentProfile, error) {
	profile, err := s.repo.Profile().GetStudentByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Email != nil {
		profile.Email = req.Email
	}
	if req.Department != nil {
		profile.Department = req.Department
	}
	if req.Roll != nil {
		profile.Roll = *req.Roll
	}
	if req.Semester != nil {
		profile.Semester = models.Semester(*req.Semester)
	}
	if req.Section != nil {
		profile.Section = req.Section
	}
	if req.StudentID != nil {
		profile.StudentID = req.StudentID
	}
	if req.BloodGroup != nil {
		profile.BloodGroup = req.BloodGroup
	}
	if req.Father != nil {
		profile.Father = req.Father
	}
	if req.Mother != nil {
		profile.Mother = req.Mother
	}
	if req.FatherPhone != nil {
		profile.FatherPhone = req.FatherPhone
	}
	if req.MotherPhone != nil {
		profile.MotherPhone = req.MotherPhone
	}
	if req.PresentAddress != nil {
		profile.PresentAddress = req.PresentAddress
	}
	if req.PermanentAddress != nil {
		profile.PermanentAddress = req.PermanentAddress
	}
	profile.UpdatedByID = &user.ID

	if err := s.repo.Profile().UpdateStudent(ctx, profile); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, studentsCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate student roster cache", "error", err)
	}

	s.auditProfileUpdate(ctx, user)
	return profile, nil
}

func (s *profileService) auditProfileUpdate(ctx context.Context, user *models.User) {
	recordAudit(ctx, s.repo, s.logger, auditEntry(models.AuditProfileUpdated, user, "profile updated", nil))
}

// StudentsBySemester returns all student profiles grouped by semester,
// ordered by roll within each group. The grouped view is cached.
func (s *profileService) StudentsBySemester(ctx context.Context, actor *models.User) (map[models.Semester][]*models.StudentProfile, error) {
	if !IsAdminOrTeacher(actor) {
		return nil, NewPermissionError(actor.ID, "student_roster", "list", "admin or teacher role required")
	}

	var cached map[models.Semester][]*models.StudentProfile
	if err := s.cache.Get(ctx, studentsCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Student roster cache read failed", "error", err)
	}

	students, err := s.repo.Profile().ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[models.Semester][]*models.StudentProfile)
	for _, student := range students {
		grouped[student.Semester] = append(grouped[student.Semester], student)
	}

	if err := s.cache.Set(ctx, studentsCacheKey, grouped, studentsCacheTTL); err != nil {
		s.logger.Warn("Student roster cache write failed", "error", err)
	}

	return grouped, nil
}

// ExportStudentRoster renders the roster as an xlsx workbook, semester then
// roll ordered.
func (s *profileService) ExportStudentRoster(ctx context.Context, actor *models.User) ([]byte, error) {
	grouped, err := s.StudentsBySemester(ctx, actor)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Students"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Semester", "Roll", "Name", "Student ID", "Section", "Department", "Email", "Blood Group",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, semester := range models.Semesters() {
		for _, student := range grouped[semester] {
			row := []interface{}{
				string(student.Semester),
				student.Roll,
				student.Name,
				deref(student.StudentID),
				deref(student.Section),
				deref(student.Department),
				deref(student.Email),
				deref(student.BloodGroup),
			}
			for colIndex, value := range row {
				cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex)
				f.SetCellValue(sheetName, cell, value)
			}
			rowIndex++
		}
	}

	entry := auditEntry(models.AuditRosterExported, actor, "student roster exported", nil)
	recordAudit(ctx, s.repo, s.logger, entry)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
