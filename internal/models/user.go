package models

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"time"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Name         string   `json:"name" gorm:"not null;size:255"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;default:student;size:10"`

	// Non-admin accounts start inactive and must be activated by an admin.
	IsActive bool `json:"is_active" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// AuthToken is an opaque bearer credential. At most one live token exists
// per user; a fresh login replaces the previous one.
type AuthToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"uniqueIndex;not null;size:64"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}

// GenerateTokenKey returns a random 40-character hex token key.
func GenerateTokenKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

const resetCodeTTL = 10 * time.Minute

// PasswordResetCode is the single reset record owned by a user. Requesting a
// new code regenerates the digits on the same row rather than accumulating
// history; confirming a reset marks it used.
type PasswordResetCode struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Code      string    `json:"-" gorm:"not null;size:6"`
	IsUsed    bool      `json:"is_used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (PasswordResetCode) TableName() string {
	return "password_reset_codes"
}

func (c *PasswordResetCode) IsExpired(now time.Time) bool {
	return now.After(c.CreatedAt.Add(resetCodeTTL))
}

// GenerateResetCode returns six uniform random digits.
func GenerateResetCode() (string, error) {
	ten := big.NewInt(10)
	digits := make([]byte, 6)
	for i := range digits {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
