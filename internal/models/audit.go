package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditEventType string

const (
	AuditUserRegistered   AuditEventType = "user_registered"
	AuditUserActivated    AuditEventType = "user_activated"
	AuditUserDeactivated  AuditEventType = "user_deactivated"
	AuditUserLogin        AuditEventType = "user_login"
	AuditUserLogout       AuditEventType = "user_logout"
	AuditResetRequested   AuditEventType = "password_reset_requested"
	AuditResetCompleted   AuditEventType = "password_reset_completed"
	AuditProfileUpdated   AuditEventType = "profile_updated"
	AuditResourceCreated  AuditEventType = "resource_created"
	AuditResourceDeleted  AuditEventType = "resource_deleted"
	AuditRosterExported   AuditEventType = "roster_exported"
)

// AuditLog records account and classroom activity. Writes are best effort;
// an audit failure never fails the operation being audited.
type AuditLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EventType AuditEventType `json:"event_type" gorm:"not null;index;size:50"`

	UserID    uint     `json:"user_id" gorm:"not null;index"`
	UserEmail string   `json:"user_email" gorm:"not null;size:255"`
	UserRole  UserRole `json:"user_role" gorm:"not null;size:10"`

	TargetType string `json:"target_type" gorm:"size:50;index"`
	TargetID   *uint  `json:"target_id" gorm:"index"`

	Description string         `json:"description" gorm:"not null;type:text"`
	Metadata    datatypes.JSON `json:"metadata" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
