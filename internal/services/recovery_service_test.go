package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lzytourist/digital-classroom/internal/events"
	"github.com/lzytourist/digital-classroom/internal/mailer"
	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRecoveryService(repo *MockRepository, mail *mailer.MockMailer) RecoveryService {
	return NewRecoveryService(repo, testLogger(), validator.New(), mail, events.NewMockEventPublisher(testLogger()))
}

func resetUser() *models.User {
	return &models.User{ID: 1, Email: "user@school.edu", IsActive: true, Role: models.RoleStudent}
}

func TestRecoveryService_RequestReset(t *testing.T) {
	t.Run("first request creates the record and mails the code", func(t *testing.T) {
		repo := newMockRepository()
		repo.userRepo.On("GetByEmail", mock.Anything, "user@school.edu").Return(resetUser(), nil)
		repo.resetCodeRepo.On("GetByUser", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)

		var stored *models.PasswordResetCode
		repo.resetCodeRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.PasswordResetCode) bool {
			stored = r
			return r.UserID == 1 && len(r.Code) == 6 && !r.IsUsed
		})).Return(nil)

		mail := &mailer.MockMailer{}
		service := newRecoveryService(repo, mail)

		err := service.RequestReset(context.Background(), &ResetRequest{Email: "user@school.edu"})

		require.NoError(t, err)
		require.Len(t, mail.Sent, 1)
		assert.Equal(t, "user@school.edu", mail.Sent[0].To)
		assert.Contains(t, mail.Sent[0].Body, stored.Code)
		repo.assertExpectations(t)
	})

	t.Run("repeat request re-arms the existing record", func(t *testing.T) {
		existing := &models.PasswordResetCode{
			UserID:    1,
			Code:      "111111",
			IsUsed:    true,
			CreatedAt: time.Now().Add(-time.Hour),
		}

		repo := newMockRepository()
		repo.userRepo.On("GetByEmail", mock.Anything, "user@school.edu").Return(resetUser(), nil)
		repo.resetCodeRepo.On("GetByUser", mock.Anything, uint(1)).Return(existing, nil)
		repo.resetCodeRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *models.PasswordResetCode) bool {
			return r.UserID == 1 &&
				r.Code != "111111" &&
				!r.IsUsed &&
				time.Since(r.CreatedAt) < time.Minute
		})).Return(nil)

		mail := &mailer.MockMailer{}
		service := newRecoveryService(repo, mail)

		err := service.RequestReset(context.Background(), &ResetRequest{Email: "user@school.edu"})

		require.NoError(t, err)
		repo.resetCodeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		repo.assertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := newMockRepository()
		repo.userRepo.On("GetByEmail", mock.Anything, "ghost@school.edu").Return(nil, gorm.ErrRecordNotFound)
		service := newRecoveryService(repo, &mailer.MockMailer{})

		err := service.RequestReset(context.Background(), &ResetRequest{Email: "ghost@school.edu"})

		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("mail failure reports delivery error but keeps the code", func(t *testing.T) {
		repo := newMockRepository()
		repo.userRepo.On("GetByEmail", mock.Anything, "user@school.edu").Return(resetUser(), nil)
		repo.resetCodeRepo.On("GetByUser", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)
		repo.resetCodeRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		mail := &mailer.MockMailer{FailErr: errors.New("smtp down")}
		service := newRecoveryService(repo, mail)

		err := service.RequestReset(context.Background(), &ResetRequest{Email: "user@school.edu"})

		require.ErrorIs(t, err, ErrMailDelivery)
		// The record was persisted before the dispatch attempt.
		repo.resetCodeRepo.AssertCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestRecoveryService_ConfirmReset(t *testing.T) {
	validRecord := func(age time.Duration) *models.PasswordResetCode {
		return &models.PasswordResetCode{
			UserID:    1,
			Code:      "123456",
			CreatedAt: time.Now().Add(-age),
		}
	}

	confirmReq := &ResetConfirmRequest{
		Email:       "user@school.edu",
		Code:        "123456",
		NewPassword: "newsecret",
	}

	t.Run("valid code updates password and burns the code", func(t *testing.T) {
		repo := newMockRepository()
		repo.userRepo.On("GetByEmail", mock.Anything, "user@school.edu").Return(resetUser(), nil)
		repo.resetCodeRepo.On("GetUnused", mock.Anything, uint(1), "123456").
			Return(validRecord(time.Minute), nil)
		repo.userRepo.On("UpdatePassword", mock.Anything, uint(1), mock.MatchedBy(func(hash string) bool {
			return strings.HasPrefix(hash, "$2")
		})).Return(nil)
		repo.resetCodeRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *models.PasswordResetCode) bool {
			return r.IsUsed
		})).Return(nil)

		service := newRecoveryService(repo, &mailer.MockMailer{})

		require.NoError(t, service.ConfirmReset(context.Background(), confirmReq))
		repo.assertExpectations(t)
	})

	t.Run("code just inside the window is accepted", func(t *testing.T) {
		repo := newMockRepository()
		repo.userRepo.On("GetByEmail", mock.Anything, "user@school.edu").Return(resetUser(), nil)
		repo.resetCodeRepo.On("GetUnused", mock.Anything, uint(1), "123456").
			Return(validRecord(10*time.Minute-time.Second), nil)
		repo.userRepo.On("UpdatePassword", mock.Anything, uint(1), mock.Anything).Return(nil)
		repo.resetCodeRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		service := newRecoveryService(repo, &mailer.MockMailer{})

		require.NoError(t, service.ConfirmReset(context.Background(), confirmReq))
	})

	t.Run("code just past the window is rejected", func(t *testing.T) {
		repo := newMockRepository()
		repo.userRepo.On("GetByEmail", mock.Anything, "user@school.edu").Return(resetUser(), nil)
		repo.resetCodeRepo.On("GetUnused", mock.Anything, uint(1), "123456").
			Return(validRecord(10*time.Minute+time.Second), nil)

		service := newRecoveryService(repo, &mailer.MockMailer{})

		err := service.ConfirmReset(context.Background(), confirmReq)

		require.ErrorIs(t, err, ErrResetCodeExpired)
		repo.userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong or used code", func(t *testing.T) {
		repo := newMockRepository()
		repo.userRepo.On("GetByEmail", mock.Anything, "user@school.edu").Return(resetUser(), nil)
		repo.resetCodeRepo.On("GetUnused", mock.Anything, uint(1), "123456").
			Return(nil, gorm.ErrRecordNotFound)

		service := newRecoveryService(repo, &mailer.MockMailer{})

		err := service.ConfirmReset(context.Background(), confirmReq)

		require.ErrorIs(t, err, ErrInvalidResetCode)
	})

	t.Run("malformed code fails validation", func(t *testing.T) {
		repo := newMockRepository()
		service := newRecoveryService(repo, &mailer.MockMailer{})

		err := service.ConfirmReset(context.Background(), &ResetConfirmRequest{
			Email:       "user@school.edu",
			Code:        "12ab56",
			NewPassword: "newsecret",
		})

		var validationErrors ValidationErrors
		require.ErrorAs(t, err, &validationErrors)
		repo.userRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})
}
