package services

import (
	"errors"
	"fmt"

	apperrors "github.com/lzytourist/digital-classroom/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Account errors
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("a user with this email already exists")
	ErrInvalidRole     = errors.New("invalid user role")
	ErrInvalidLogin    = errors.New("unable to log in with provided credentials")
	ErrProfileNotFound = errors.New("profile not found")

	// Password recovery errors
	ErrInvalidResetCode = errors.New("invalid or already used reset code")
	ErrResetCodeExpired = errors.New("reset code has expired")
	ErrMailDelivery     = errors.New("failed to deliver email")

	// Classroom errors
	ErrResourceNotFound = errors.New("resource not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID   uint   `json:"user_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s - %s",
		pe.UserID, pe.Action, pe.Resource, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}
