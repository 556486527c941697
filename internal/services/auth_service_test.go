package services

import (
	"context"
	"testing"

	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(repo *MockRepository) AuthService {
	return NewAuthService(repo, testLogger(), validator.New())
}

func TestAuthService_Login(t *testing.T) {
	activeUser := func(t *testing.T) *models.User {
		return &models.User{
			ID:           1,
			Email:        "user@school.edu",
			PasswordHash: hashPassword(t, "secret123"),
			Role:         models.RoleTeacher,
			IsActive:     true,
		}
	}

	t.Run("issues fresh token", func(t *testing.T) {
		repo := newMockRepository()
		repo.userRepo.On("GetByEmail", mock.Anything, "user@school.edu").Return(activeUser(t), nil)
		repo.tokenRepo.On("Replace", mock.Anything, uint(1), mock.MatchedBy(func(key string) bool {
			// 20 random bytes hex encoded
			return len(key) == 40
		})).Return(&models.AuthToken{}, nil)
		service := newAuthService(repo)

		resp, err := service.Login(context.Background(), &LoginRequest{
			Email:    "user@school.edu",
			Password: "secret123",
		})

		require.NoError(t, err)
		assert.Len(t, resp.Token, 40)
		assert.Equal(t, uint(1), resp.User.ID)
		repo.assertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := newMockRepository()
		repo.userRepo.On("GetByEmail", mock.Anything, "user@school.edu").Return(activeUser(t), nil)
		service := newAuthService(repo)

		_, err := service.Login(context.Background(), &LoginRequest{
			Email:    "user@school.edu",
			Password: "wrong",
		})

		require.ErrorIs(t, err, ErrInvalidLogin)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := newMockRepository()
		repo.userRepo.On("GetByEmail", mock.Anything, "ghost@school.edu").Return(nil, gorm.ErrRecordNotFound)
		service := newAuthService(repo)

		_, err := service.Login(context.Background(), &LoginRequest{
			Email:    "ghost@school.edu",
			Password: "secret123",
		})

		require.ErrorIs(t, err, ErrInvalidLogin)
	})

	t.Run("inactive account looks like bad credentials", func(t *testing.T) {
		user := activeUser(t)
		user.IsActive = false
		repo := newMockRepository()
		repo.userRepo.On("GetByEmail", mock.Anything, "user@school.edu").Return(user, nil)
		service := newAuthService(repo)

		_, err := service.Login(context.Background(), &LoginRequest{
			Email:    "user@school.edu",
			Password: "secret123",
		})

		require.ErrorIs(t, err, ErrInvalidLogin)
		repo.tokenRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("revokes token", func(t *testing.T) {
		repo := newMockRepository()
		repo.tokenRepo.On("GetByKey", mock.Anything, "abc").Return(&models.AuthToken{
			Key:    "abc",
			UserID: 1,
			User:   models.User{ID: 1},
		}, nil)
		repo.tokenRepo.On("DeleteByKey", mock.Anything, "abc").Return(nil)
		service := newAuthService(repo)

		require.NoError(t, service.Logout(context.Background(), "abc"))
		repo.assertExpectations(t)
	})

	t.Run("unknown token", func(t *testing.T) {
		repo := newMockRepository()
		repo.tokenRepo.On("GetByKey", mock.Anything, "gone").Return(nil, gorm.ErrRecordNotFound)
		service := newAuthService(repo)

		require.ErrorIs(t, service.Logout(context.Background(), "gone"), ErrUnauthorized)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Run("resolves token to user", func(t *testing.T) {
		repo := newMockRepository()
		repo.tokenRepo.On("GetByKey", mock.Anything, "abc").Return(&models.AuthToken{
			Key:    "abc",
			UserID: 7,
			User:   models.User{ID: 7, Role: models.RoleStudent, IsActive: true},
		}, nil)
		service := newAuthService(repo)

		user, err := service.Authenticate(context.Background(), "abc")

		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
	})

	t.Run("empty token", func(t *testing.T) {
		repo := newMockRepository()
		service := newAuthService(repo)

		_, err := service.Authenticate(context.Background(), "")

		require.ErrorIs(t, err, ErrUnauthorized)
		repo.tokenRepo.AssertNotCalled(t, "GetByKey", mock.Anything, mock.Anything)
	})

	t.Run("deactivated account keeps its token but loses access", func(t *testing.T) {
		repo := newMockRepository()
		repo.tokenRepo.On("GetByKey", mock.Anything, "abc").Return(&models.AuthToken{
			Key:    "abc",
			UserID: 7,
			User:   models.User{ID: 7, Role: models.RoleStudent, IsActive: false},
		}, nil)
		service := newAuthService(repo)

		user, err := service.Authenticate(context.Background(), "abc")

		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Nil(t, user)
	})

	t.Run("revoked token", func(t *testing.T) {
		repo := newMockRepository()
		repo.tokenRepo.On("GetByKey", mock.Anything, "revoked").Return(nil, gorm.ErrRecordNotFound)
		service := newAuthService(repo)

		_, err := service.Authenticate(context.Background(), "revoked")

		require.ErrorIs(t, err, ErrUnauthorized)
	})
}
