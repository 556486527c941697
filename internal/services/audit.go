package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
)

// recordAudit writes an audit entry. Audit is best effort: failures are
// logged and never propagated to the audited operation.
func recordAudit(ctx context.Context, repo repositories.Repository, logger *slog.Logger, entry *models.AuditLog) {
	if err := repo.Audit().Create(ctx, entry); err != nil {
		logger.Warn("Failed to write audit entry",
			"event_type", entry.EventType,
			"user_id", entry.UserID,
			"error", err)
	}
}

func auditEntry(eventType models.AuditEventType, actor *models.User, description string, metadata map[string]interface{}) *models.AuditLog {
	entry := &models.AuditLog{
		EventType:   eventType,
		UserID:      actor.ID,
		UserEmail:   actor.Email,
		UserRole:    actor.Role,
		Description: description,
	}
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			entry.Metadata = raw
		}
	}
	return entry
}
