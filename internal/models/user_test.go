package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key, err := GenerateTokenKey()
		require.NoError(t, err)
		assert.Len(t, key, 40)
		assert.Regexp(t, "^[0-9a-f]{40}$", key)
		assert.False(t, seen[key], "token keys must not repeat")
		seen[key] = true
	}
}

func TestGenerateResetCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateResetCode()
		require.NoError(t, err)
		assert.Regexp(t, "^[0-9]{6}$", code)
	}
}

func TestPasswordResetCode_IsExpired(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	code := PasswordResetCode{CreatedAt: created}

	assert.False(t, code.IsExpired(created.Add(9*time.Minute+59*time.Second)))
	assert.False(t, code.IsExpired(created.Add(10*time.Minute)))
	assert.True(t, code.IsExpired(created.Add(10*time.Minute+time.Second)))
}

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleTeacher.Valid())
	assert.True(t, RoleStudent.Valid())
	assert.False(t, UserRole("principal").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestSemester_Valid(t *testing.T) {
	for _, s := range Semesters() {
		assert.True(t, s.Valid())
	}
	assert.False(t, Semester("9th").Valid())
	assert.False(t, Semester("first").Valid())
}
