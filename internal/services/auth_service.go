package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"github.com/lzytourist/digital-classroom/internal/validator"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns credential verification and token sessions.
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error)
	Logout(ctx context.Context, tokenKey string) error
	Authenticate(ctx context.Context, tokenKey string) (*models.User, error)
}

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies credentials and issues a fresh token, replacing any prior
// session. Wrong password and inactive account produce the same error so a
// caller cannot probe account state.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidLogin
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidLogin
	}

	if !user.IsActive {
		return nil, ErrInvalidLogin
	}

	key, err := models.GenerateTokenKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if _, err := s.repo.Token().Replace(ctx, user.ID, key); err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	recordAudit(ctx, s.repo, s.logger, auditEntry(models.AuditUserLogin, user, "user logged in", nil))

	return &TokenResponse{Token: key, User: user}, nil
}

// Logout revokes the presented token; subsequent use fails authentication.
func (s *authService) Logout(ctx context.Context, tokenKey string) error {
	token, err := s.repo.Token().GetByKey(ctx, tokenKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		}
		return err
	}

	if err := s.repo.Token().DeleteByKey(ctx, tokenKey); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		}
		return err
	}

	s.logger.Info("User logged out", "user_id", token.UserID)
	recordAudit(ctx, s.repo, s.logger, auditEntry(models.AuditUserLogout, &token.User, "user logged out", nil))

	return nil
}

// Authenticate resolves a bearer token key to its user. Tokens held by
// inactive accounts do not authenticate, so admin deactivation takes effect
// immediately.
func (s *authService) Authenticate(ctx context.Context, tokenKey string) (*models.User, error) {
	if tokenKey == "" {
		return nil, ErrUnauthorized
	}

	token, err := s.repo.Token().GetByKey(ctx, tokenKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if !token.User.IsActive {
		return nil, ErrUnauthorized
	}

	return &token.User, nil
}
