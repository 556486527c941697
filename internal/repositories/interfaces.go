package repositories

import (
	"context"

	"github.com/lzytourist/digital-classroom/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role          *models.UserRole `json:"role"`
	ExcludeAdmins bool             `json:"exclude_admins"`
	Limit         int              `json:"limit"`
	Offset        int              `json:"offset"`
}

type ResourceFilters struct {
	Semester *models.Semester `json:"semester"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// UserRepository owns the identity store.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, error)
	SetActive(ctx context.Context, id uint, active bool) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	Delete(ctx context.Context, id uint) error
}

// TokenRepository owns opaque bearer tokens, one live token per user.
type TokenRepository interface {
	Replace(ctx context.Context, userID uint, key string) (*models.AuthToken, error)
	GetByKey(ctx context.Context, key string) (*models.AuthToken, error)
	DeleteByKey(ctx context.Context, key string) error
	DeleteByUser(ctx context.Context, userID uint) error
}

// ResetCodeRepository owns the single password reset record per user.
type ResetCodeRepository interface {
	GetByUser(ctx context.Context, userID uint) (*models.PasswordResetCode, error)
	GetUnused(ctx context.Context, userID uint, code string) (*models.PasswordResetCode, error)
	Create(ctx context.Context, code *models.PasswordResetCode) error
	Update(ctx context.Context, code *models.PasswordResetCode) error
}

// ProfileRepository owns the role profile stores.
type ProfileRepository interface {
	CreateTeacher(ctx context.Context, profile *models.TeacherProfile) error
	CreateStudent(ctx context.Context, profile *models.StudentProfile) error
	GetTeacherByUser(ctx context.Context, userID uint) (*models.TeacherProfile, error)
	GetStudentByUser(ctx context.Context, userID uint) (*models.StudentProfile, error)
	UpdateTeacher(ctx context.Context, profile *models.TeacherProfile) error
	UpdateStudent(ctx context.Context, profile *models.StudentProfile) error

	// ListStudents returns all student profiles ordered by roll.
	ListStudents(ctx context.Context) ([]*models.StudentProfile, error)
}

// ClassroomRepository owns the classroom resource stores.
type ClassroomRepository interface {
	CreateRoutine(ctx context.Context, routine *models.Routine) error
	GetRoutine(ctx context.Context, id uint) (*models.Routine, error)
	ListRoutines(ctx context.Context, filters ResourceFilters) ([]*models.Routine, error)
	UpdateRoutine(ctx context.Context, routine *models.Routine) error
	DeleteRoutine(ctx context.Context, id uint) error

	CreateNotice(ctx context.Context, notice *models.Notice) error
	GetNotice(ctx context.Context, id uint) (*models.Notice, error)
	ListNotices(ctx context.Context, filters ResourceFilters) ([]*models.Notice, error)
	UpdateNotice(ctx context.Context, notice *models.Notice) error
	DeleteNotice(ctx context.Context, id uint) error

	CreateClass(ctx context.Context, class *models.Class) error
	GetClass(ctx context.Context, id uint) (*models.Class, error)
	ListClasses(ctx context.Context, filters ResourceFilters) ([]*models.Class, error)
	UpdateClass(ctx context.Context, class *models.Class) error
	DeleteClass(ctx context.Context, id uint) error

	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
	GetAssignment(ctx context.Context, id uint) (*models.Assignment, error)
	ListAssignments(ctx context.Context, filters ResourceFilters) ([]*models.Assignment, error)
	UpdateAssignment(ctx context.Context, assignment *models.Assignment) error
	DeleteAssignment(ctx context.Context, id uint) error
}

// AuditRepository records account and classroom activity.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error)
}

// Repository aggregates all stores and provides transactional units.
type Repository interface {
	User() UserRepository
	Token() TokenRepository
	ResetCode() ResetCodeRepository
	Profile() ProfileRepository
	Classroom() ClassroomRepository
	Audit() AuditRepository

	// WithTransaction runs fn against a repository bound to a single
	// transaction; any error rolls the whole unit back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
}
