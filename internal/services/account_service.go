package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lzytourist/digital-classroom/internal/cache"
	"github.com/lzytourist/digital-classroom/internal/events"
	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"github.com/lzytourist/digital-classroom/internal/validator"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountService owns the account lifecycle: registration, activation and
// user listing.
type AccountService interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	SetActiveStatus(ctx context.Context, actor *models.User, req *ActiveStatusRequest) error
	ListUsers(ctx context.Context, actor *models.User, roleFilter string) ([]*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

type accountService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	cache     cache.CacheService
}

func NewAccountService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
) AccountService {
	return &accountService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		cache:     cacheService,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=255"`
	Role     string `json:"role" validate:"required,user_role"`

	// Shared profile fields
	Department *string `json:"department" validate:"omitempty,max=255"`
	BloodGroup *string `json:"blood_group" validate:"omitempty,max=5"`

	// Teacher profile fields
	Designation *string `json:"designation" validate:"omitempty,max=255"`
	TeacherID   *string `json:"teacher_id" validate:"omitempty,max=50"`

	// Student profile fields
	Roll      *int    `json:"roll" validate:"omitempty,min=0"`
	Semester  *string `json:"semester" validate:"omitempty,semester"`
	Section   *string `json:"section" validate:"omitempty,max=50"`
	StudentID *string `json:"student_id" validate:"omitempty,max=50"`
}

type RegisterResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type ActiveStatusRequest struct {
	UserID   uint  `json:"user_id" validate:"required"`
	IsActive *bool `json:"is_active" validate:"required"`
}

// Register creates the user, its role profile and a session token in one
// transactional unit; a profile validation failure leaves no user behind.
func (s *accountService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	role := models.UserRole(req.Role)
	if err := s.validateProfileFields(req, role); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	key, err := models.GenerateTokenKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         role,
		// Only admin accounts are usable immediately; everyone else
		// waits for an admin to flip the flag.
		IsActive: role == models.RoleAdmin,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		exists, err := txRepo.User().ExistsByEmail(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return ErrEmailExists
		}

		if err := txRepo.User().Create(ctx, user); err != nil {
			return err
		}

		if err := s.createProfile(ctx, txRepo, user, req); err != nil {
			return err
		}

		if _, err := txRepo.Token().Replace(ctx, user.ID, key); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role, "active", user.IsActive)

	recordAudit(ctx, s.repo, s.logger, auditEntry(models.AuditUserRegistered, user,
		"user registered", map[string]interface{}{"role": user.Role}))

	if err := s.publisher.PublishEvent(ctx, events.NewDomainEvent(events.EventUserRegistered, events.UserRegisteredEvent{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
		IsActive: user.IsActive,
	})); err != nil {
		s.logger.Warn("Failed to publish registration event", "user_id", user.ID, "error", err)
	}

	if role == models.RoleStudent {
		if err := s.cache.Delete(ctx, studentsCacheKey); err != nil {
			s.logger.Warn("Failed to invalidate student roster cache", "error", err)
		}
	}

	return &RegisterResponse{Token: key, User: user}, nil
}

// validateProfileFields enforces the per-role required fields that the
// struct tags cannot express.
func (s *accountService) validateProfileFields(req *RegisterRequest, role models.UserRole) error {
	switch role {
	case models.RoleTeacher:
		var errs ValidationErrors
		if req.Department == nil || *req.Department == "" {
			errs = append(errs, *NewValidationError("department", "is required", nil))
		}
		if req.Designation == nil || *req.Designation == "" {
			errs = append(errs, *NewValidationError("designation", "is required", nil))
		}
		if len(errs) > 0 {
			return errs
		}
	case models.RoleStudent:
		if req.Semester == nil || *req.Semester == "" {
			return ValidationErrors{*NewValidationError("semester", "is required", nil)}
		}
	}
	return nil
}

func (s *accountService) createProfile(ctx context.Context, txRepo repositories.Repository, user *models.User, req *RegisterRequest) error {
	switch user.Role {
	case models.RoleAdmin:
		// Admins have no role profile.
		return nil
	case models.RoleTeacher:
		profile := &models.TeacherProfile{
			UserID:      user.ID,
			Name:        user.Name,
			Email:       &user.Email,
			Department:  req.Department,
			Designation: req.Designation,
			TeacherID:   req.TeacherID,
			BloodGroup:  req.BloodGroup,
			UpdatedByID: &user.ID,
		}
		return txRepo.Profile().CreateTeacher(ctx, profile)
	case models.RoleStudent:
		profile := &models.StudentProfile{
			UserID:      user.ID,
			Name:        user.Name,
			Email:       &user.Email,
			Department:  req.Department,
			Semester:    models.Semester(*req.Semester),
			Section:     req.Section,
			StudentID:   req.StudentID,
			BloodGroup:  req.BloodGroup,
			UpdatedByID: &user.ID,
		}
		if req.Roll != nil {
			profile.Roll = *req.Roll
		}
		return txRepo.Profile().CreateStudent(ctx, profile)
	default:
		return ErrInvalidRole
	}
}

// SetActiveStatus lets an admin activate or deactivate a user.
func (s *accountService) SetActiveStatus(ctx context.Context, actor *models.User, req *ActiveStatusRequest) error {
	if !IsAdmin(actor) {
		return NewPermissionError(actor.ID, "user", "set_active_status", "admin role required")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return err
	}

	active := *req.IsActive
	if err := s.repo.User().SetActive(ctx, req.UserID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	eventType := models.AuditUserActivated
	domainType := events.EventUserActivated
	if !active {
		eventType = models.AuditUserDeactivated
		domainType = events.EventUserDeactivated
	}

	s.logger.Info("User active status changed", "user_id", req.UserID, "active", active, "changed_by", actor.ID)

	entry := auditEntry(eventType, actor, "user active status changed", map[string]interface{}{"active": active})
	entry.TargetType = "user"
	entry.TargetID = &req.UserID
	recordAudit(ctx, s.repo, s.logger, entry)

	if err := s.publisher.PublishEvent(ctx, events.NewDomainEvent(domainType, events.UserActiveChangedEvent{
		UserID:    req.UserID,
		IsActive:  active,
		ChangedBy: actor.ID,
	})); err != nil {
		s.logger.Warn("Failed to publish active status event", "user_id", req.UserID, "error", err)
	}

	return nil
}

// ListUsers returns non-admin users, optionally filtered by role.
func (s *accountService) ListUsers(ctx context.Context, actor *models.User, roleFilter string) ([]*models.User, error) {
	if !IsAdmin(actor) {
		return nil, NewPermissionError(actor.ID, "user", "list", "admin role required")
	}

	filters := repositories.UserFilters{ExcludeAdmins: true}
	if roleFilter != "" {
		role := models.UserRole(roleFilter)
		if role == models.RoleStudent || role == models.RoleTeacher {
			filters.Role = &role
		}
	}

	return s.repo.User().List(ctx, filters)
}

func (s *accountService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
