package postgres

import (
	"context"
	"fmt"

	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"gorm.io/gorm"
)

type ResetCodePostgreSQL struct {
	db *gorm.DB
}

func NewResetCodePostgreSQL(db *gorm.DB) repositories.ResetCodeRepository {
	return &ResetCodePostgreSQL{db: db}
}

func (r *ResetCodePostgreSQL) GetByUser(ctx context.Context, userID uint) (*models.PasswordResetCode, error) {
	var code models.PasswordResetCode
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *ResetCodePostgreSQL) GetUnused(ctx context.Context, userID uint, code string) (*models.PasswordResetCode, error) {
	var record models.PasswordResetCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND code = ? AND is_used = ?", userID, code, false).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ResetCodePostgreSQL) Create(ctx context.Context, code *models.PasswordResetCode) error {
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return fmt.Errorf("failed to create reset code: %w", err)
	}
	return nil
}

// Update persists the full record, including regenerated code values and a
// cleared used flag. Select lists the mutable columns explicitly so a
// regenerated code is actually written.
func (r *ResetCodePostgreSQL) Update(ctx context.Context, code *models.PasswordResetCode) error {
	result := r.db.WithContext(ctx).
		Model(code).
		Select("code", "is_used", "created_at").
		Updates(map[string]interface{}{
			"code":       code.Code,
			"is_used":    code.IsUsed,
			"created_at": code.CreatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update reset code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
