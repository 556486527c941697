package postgres

import (
	"context"
	"fmt"

	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"gorm.io/gorm"
)

type AuditPostgreSQL struct {
	db *gorm.DB
}

func NewAuditPostgreSQL(db *gorm.DB) repositories.AuditRepository {
	return &AuditPostgreSQL{db: db}
}

func (a *AuditPostgreSQL) Create(ctx context.Context, entry *models.AuditLog) error {
	if err := a.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

func (a *AuditPostgreSQL) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error) {
	query := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var entries []*models.AuditLog
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
