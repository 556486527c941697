package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lzytourist/digital-classroom/internal/events"
	"github.com/lzytourist/digital-classroom/internal/mailer"
	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"github.com/lzytourist/digital-classroom/internal/validator"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RecoveryService owns the password reset flow: a single regenerable
// six-digit code per user, valid ten minutes, consumable exactly once.
type RecoveryService interface {
	RequestReset(ctx context.Context, req *ResetRequest) error
	ConfirmReset(ctx context.Context, req *ResetConfirmRequest) error
}

type recoveryService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	mailer    mailer.Mailer
	publisher events.EventPublisher
}

func NewRecoveryService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	mail mailer.Mailer,
	publisher events.EventPublisher,
) RecoveryService {
	return &recoveryService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		mailer:    mail,
		publisher: publisher,
	}
}

type ResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetConfirmRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,reset_code"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// RequestReset regenerates the user's reset code and dispatches it by mail.
// The stored code survives a failed dispatch; only the delivery error is
// reported.
func (s *recoveryService) RequestReset(ctx context.Context, req *ResetRequest) error {
	if err := s.validator.ValidateStruct(req); err != nil {
		return err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	code, err := models.GenerateResetCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	now := time.Now()
	record, err := s.repo.ResetCode().GetByUser(ctx, user.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		record = &models.PasswordResetCode{
			UserID:    user.ID,
			Code:      code,
			CreatedAt: now,
		}
		if err := s.repo.ResetCode().Create(ctx, record); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		// Re-arm the existing record: fresh digits, cleared used flag,
		// restarted expiry window.
		record.Code = code
		record.IsUsed = false
		record.CreatedAt = now
		if err := s.repo.ResetCode().Update(ctx, record); err != nil {
			return err
		}
	}

	s.logger.Info("Password reset requested", "user_id", user.ID)
	recordAudit(ctx, s.repo, s.logger, auditEntry(models.AuditResetRequested, user, "password reset requested", nil))

	if err := s.publisher.PublishEvent(ctx, events.NewDomainEvent(events.EventResetRequested, events.PasswordResetRequestedEvent{
		UserID:      user.ID,
		Email:       user.Email,
		RequestedAt: now,
	})); err != nil {
		s.logger.Warn("Failed to publish reset requested event", "user_id", user.ID, "error", err)
	}

	subject := "Password Reset Code"
	body := fmt.Sprintf("Your password reset code is %s. It expires in 10 minutes.", record.Code)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		s.logger.Error("Failed to send reset code email", "user_id", user.ID, "error", err)
		return ErrMailDelivery
	}

	return nil
}

// ConfirmReset consumes a matching unused, unexpired code and updates the
// password in the same transactional unit.
func (s *recoveryService) ConfirmReset(ctx context.Context, req *ResetConfirmRequest) error {
	if err := s.validator.ValidateStruct(req); err != nil {
		return err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	record, err := s.repo.ResetCode().GetUnused(ctx, user.ID, req.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetCode
		}
		return err
	}

	if record.IsExpired(time.Now()) {
		return ErrResetCodeExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return err
		}
		record.IsUsed = true
		return txRepo.ResetCode().Update(ctx, record)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Password reset completed", "user_id", user.ID)
	recordAudit(ctx, s.repo, s.logger, auditEntry(models.AuditResetCompleted, user, "password reset completed", nil))

	if err := s.publisher.PublishEvent(ctx, events.NewDomainEvent(events.EventResetCompleted, events.PasswordResetCompletedEvent{
		UserID:      user.ID,
		Email:       user.Email,
		CompletedAt: time.Now(),
	})); err != nil {
		s.logger.Warn("Failed to publish reset completed event", "user_id", user.ID, "error", err)
	}

	return nil
}
