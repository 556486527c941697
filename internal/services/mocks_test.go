package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uint, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenRepository is a mock implementation of TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Replace(ctx context.Context, userID uint, key string) (*models.AuthToken, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthToken), args.Error(1)
}

func (m *MockTokenRepository) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthToken), args.Error(1)
}

func (m *MockTokenRepository) DeleteByKey(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockTokenRepository) DeleteByUser(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockResetCodeRepository is a mock implementation of ResetCodeRepository
type MockResetCodeRepository struct {
	mock.Mock
}

func (m *MockResetCodeRepository) GetByUser(ctx context.Context, userID uint) (*models.PasswordResetCode, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PasswordResetCode), args.Error(1)
}

func (m *MockResetCodeRepository) GetUnused(ctx context.Context, userID uint, code string) (*models.PasswordResetCode, error) {
	args := m.Called(ctx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PasswordResetCode), args.Error(1)
}

func (m *MockResetCodeRepository) Create(ctx context.Context, code *models.PasswordResetCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockResetCodeRepository) Update(ctx context.Context, code *models.PasswordResetCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) CreateTeacher(ctx context.Context, profile *models.TeacherProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) CreateStudent(ctx context.Context, profile *models.StudentProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetTeacherByUser(ctx context.Context, userID uint) (*models.TeacherProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeacherProfile), args.Error(1)
}

func (m *MockProfileRepository) GetStudentByUser(ctx context.Context, userID uint) (*models.StudentProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentProfile), args.Error(1)
}

func (m *MockProfileRepository) UpdateTeacher(ctx context.Context, profile *models.TeacherProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateStudent(ctx context.Context, profile *models.StudentProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) ListStudents(ctx context.Context) ([]*models.StudentProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.StudentProfile), args.Error(1)
}

// MockClassroomRepository is a mock implementation of ClassroomRepository
type MockClassroomRepository struct {
	mock.Mock
}

func (m *MockClassroomRepository) CreateRoutine(ctx context.Context, routine *models.Routine) error {
	args := m.Called(ctx, routine)
	return args.Error(0)
}

func (m *MockClassroomRepository) GetRoutine(ctx context.Context, id uint) (*models.Routine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Routine), args.Error(1)
}

func (m *MockClassroomRepository) ListRoutines(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Routine, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Routine), args.Error(1)
}

func (m *MockClassroomRepository) UpdateRoutine(ctx context.Context, routine *models.Routine) error {
	args := m.Called(ctx, routine)
	return args.Error(0)
}

func (m *MockClassroomRepository) DeleteRoutine(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClassroomRepository) CreateNotice(ctx context.Context, notice *models.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockClassroomRepository) GetNotice(ctx context.Context, id uint) (*models.Notice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notice), args.Error(1)
}

func (m *MockClassroomRepository) ListNotices(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Notice, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Notice), args.Error(1)
}

func (m *MockClassroomRepository) UpdateNotice(ctx context.Context, notice *models.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockClassroomRepository) DeleteNotice(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClassroomRepository) CreateClass(ctx context.Context, class *models.Class) error {
	args := m.Called(ctx, class)
	return args.Error(0)
}

func (m *MockClassroomRepository) GetClass(ctx context.Context, id uint) (*models.Class, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Class), args.Error(1)
}

func (m *MockClassroomRepository) ListClasses(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Class, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Class), args.Error(1)
}

func (m *MockClassroomRepository) UpdateClass(ctx context.Context, class *models.Class) error {
	args := m.Called(ctx, class)
	return args.Error(0)
}

func (m *MockClassroomRepository) DeleteClass(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClassroomRepository) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockClassroomRepository) GetAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockClassroomRepository) ListAssignments(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Assignment, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Assignment), args.Error(1)
}

func (m *MockClassroomRepository) UpdateAssignment(ctx context.Context, assignment *models.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockClassroomRepository) DeleteAssignment(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

// MockRepository aggregates the store mocks behind the Repository interface.
// WithTransaction runs the callback against the same mocks, so transactional
// paths exercise the identical expectations.
type MockRepository struct {
	userRepo      *MockUserRepository
	tokenRepo     *MockTokenRepository
	resetCodeRepo *MockResetCodeRepository
	profileRepo   *MockProfileRepository
	classroomRepo *MockClassroomRepository
	auditRepo     *MockAuditRepository

	txErr error
}

func newMockRepository() *MockRepository {
	repo := &MockRepository{
		userRepo:      &MockUserRepository{},
		tokenRepo:     &MockTokenRepository{},
		resetCodeRepo: &MockResetCodeRepository{},
		profileRepo:   &MockProfileRepository{},
		classroomRepo: &MockClassroomRepository{},
		auditRepo:     &MockAuditRepository{},
	}
	// Audit writes are best effort background noise for most tests.
	repo.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	return repo
}

func (m *MockRepository) User() repositories.UserRepository           { return m.userRepo }
func (m *MockRepository) Token() repositories.TokenRepository         { return m.tokenRepo }
func (m *MockRepository) ResetCode() repositories.ResetCodeRepository { return m.resetCodeRepo }
func (m *MockRepository) Profile() repositories.ProfileRepository     { return m.profileRepo }
func (m *MockRepository) Classroom() repositories.ClassroomRepository { return m.classroomRepo }
func (m *MockRepository) Audit() repositories.AuditRepository         { return m.auditRepo }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	return fn(m)
}

func (m *MockRepository) Ping(ctx context.Context) error { return nil }

func (m *MockRepository) assertExpectations(t mock.TestingT) {
	m.userRepo.AssertExpectations(t)
	m.tokenRepo.AssertExpectations(t)
	m.resetCodeRepo.AssertExpectations(t)
	m.profileRepo.AssertExpectations(t)
	m.classroomRepo.AssertExpectations(t)
	m.auditRepo.AssertExpectations(t)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }
func boolPtr(b bool) *bool       { return &b }
