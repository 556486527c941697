package postgres

import (
	"context"
	"fmt"

	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"gorm.io/gorm"
)

type TokenPostgreSQL struct {
	db *gorm.DB
}

func NewTokenPostgreSQL(db *gorm.DB) repositories.TokenRepository {
	return &TokenPostgreSQL{db: db}
}

// Replace drops any existing token for the user and stores a fresh one, so a
// user never holds more than one live session.
func (t *TokenPostgreSQL) Replace(ctx context.Context, userID uint, key string) (*models.AuthToken, error) {
	token := &models.AuthToken{UserID: userID, Key: key}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error; err != nil {
			return fmt.Errorf("failed to revoke previous token: %w", err)
		}
		if err := tx.Create(token).Error; err != nil {
			return fmt.Errorf("failed to create token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (t *TokenPostgreSQL) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	var token models.AuthToken
	err := t.db.WithContext(ctx).
		Preload("User").
		Where("key = ?", key).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (t *TokenPostgreSQL) DeleteByKey(ctx context.Context, key string) error {
	result := t.db.WithContext(ctx).Where("key = ?", key).Delete(&models.AuthToken{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (t *TokenPostgreSQL) DeleteByUser(ctx context.Context, userID uint) error {
	return t.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error
}
