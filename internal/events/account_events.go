package events

import (
	"time"

	"github.com/lzytourist/digital-classroom/internal/models"
)

// EventType represents different types of domain events
type EventType string

const (
	// Account events
	EventUserRegistered   EventType = "account.registered"
	EventUserActivated    EventType = "account.activated"
	EventUserDeactivated  EventType = "account.deactivated"
	EventResetRequested   EventType = "account.password_reset.requested"
	EventResetCompleted   EventType = "account.password_reset.completed"

	// Classroom events
	EventNoticeCreated     EventType = "classroom.notice.created"
	EventAssignmentCreated EventType = "classroom.assignment.created"
)

// DomainEvent is the base event structure published to the message broker
type DomainEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Account event payloads

type UserRegisteredEvent struct {
	UserID   uint            `json:"user_id"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Role     models.UserRole `json:"role"`
	IsActive bool            `json:"is_active"`
}

type UserActiveChangedEvent struct {
	UserID    uint `json:"user_id"`
	IsActive  bool `json:"is_active"`
	ChangedBy uint `json:"changed_by"`
}

type PasswordResetRequestedEvent struct {
	UserID      uint      `json:"user_id"`
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requested_at"`
}

type PasswordResetCompletedEvent struct {
	UserID      uint      `json:"user_id"`
	Email       string    `json:"email"`
	CompletedAt time.Time `json:"completed_at"`
}

// Classroom event payloads

type NoticeCreatedEvent struct {
	NoticeID uint   `json:"notice_id"`
	Title    string `json:"title"`
	AddedBy  uint   `json:"added_by"`
}

type AssignmentCreatedEvent struct {
	AssignmentID uint            `json:"assignment_id"`
	Title        string          `json:"title"`
	Semester     models.Semester `json:"semester"`
	TeacherID    uint            `json:"teacher_id"`
}
