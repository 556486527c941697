package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lzytourist/digital-classroom/internal/events"
	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"github.com/lzytourist/digital-classroom/internal/validator"
	"gorm.io/gorm"
)

// ClassroomService owns routines, notices, classes and assignments.
// Routines and notices are admin-published; classes and assignments belong
// to the teacher who created them.
type ClassroomService interface {
	CreateRoutine(ctx context.Context, actor *models.User, req *RoutineRequest) (*models.Routine, error)
	GetRoutine(ctx context.Context, id uint) (*models.Routine, error)
	ListRoutines(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Routine, error)
	UpdateRoutine(ctx context.Context, actor *models.User, id uint, req *RoutineRequest) (*models.Routine, error)
	DeleteRoutine(ctx context.Context, actor *models.User, id uint) (*models.Routine, error)

	CreateNotice(ctx context.Context, actor *models.User, req *NoticeRequest) (*models.Notice, error)
	GetNotice(ctx context.Context, id uint) (*models.Notice, error)
	ListNotices(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Notice, error)
	UpdateNotice(ctx context.Context, actor *models.User, id uint, req *NoticeRequest) (*models.Notice, error)
	DeleteNotice(ctx context.Context, actor *models.User, id uint) (*models.Notice, error)

	CreateClass(ctx context.Context, actor *models.User, req *ClassRequest) (*models.Class, error)
	GetClass(ctx context.Context, id uint) (*models.Class, error)
	ListClasses(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Class, error)
	UpdateClass(ctx context.Context, actor *models.User, id uint, req *ClassRequest) (*models.Class, error)
	DeleteClass(ctx context.Context, actor *models.User, id uint) (*models.Class, error)

	CreateAssignment(ctx context.Context, actor *models.User, req *AssignmentRequest) (*models.Assignment, error)
	GetAssignment(ctx context.Context, id uint) (*models.Assignment, error)
	ListAssignments(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Assignment, error)
	UpdateAssignment(ctx context.Context, actor *models.User, id uint, req *AssignmentRequest) (*models.Assignment, error)
	DeleteAssignment(ctx context.Context, actor *models.User, id uint) (*models.Assignment, error)
}

type classroomService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewClassroomService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	publisher events.EventPublisher,
) ClassroomService {
	return &classroomService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

type RoutineRequest struct {
	Semester string  `json:"semester" validate:"required,semester"`
	FilePath *string `json:"-"`
}

type NoticeRequest struct {
	Title    string  `json:"title" validate:"required,max=255"`
	FilePath *string `json:"-"`
}

type ClassRequest struct {
	Title    string  `json:"title" validate:"required,max=255"`
	Semester string  `json:"semester" validate:"required,semester"`
	Link     *string `json:"link" validate:"omitempty,url,max=255"`
	FilePath *string `json:"-"`
}

type AssignmentRequest struct {
	Title    string  `json:"title" validate:"required,max=255"`
	Content  *string `json:"content" validate:"omitempty"`
	Semester string  `json:"semester" validate:"required,semester"`
	FilePath *string `json:"-"`
}

// ===== ROUTINES =====

func (s *classroomService) CreateRoutine(ctx context.Context, actor *models.User, req *RoutineRequest) (*models.Routine, error) {
	if !IsAdmin(actor) {
		return nil, NewPermissionError(actor.ID, "routine", "create", "admin role required")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	routine := &models.Routine{
		Semester:  models.Semester(req.Semester),
		FilePath:  req.FilePath,
		AddedByID: &actor.ID,
	}
	if err := s.repo.Classroom().CreateRoutine(ctx, routine); err != nil {
		return nil, err
	}

	s.auditResource(ctx, models.AuditResourceCreated, actor, "routine", routine.ID)
	return routine, nil
}

func (s *classroomService) GetRoutine(ctx context.Context, id uint) (*models.Routine, error) {
	routine, err := s.repo.Classroom().GetRoutine(ctx, id)
	if err != nil {
		return nil, resourceErr(err)
	}
	return routine, nil
}

func (s *classroomService) ListRoutines(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Routine, error) {
	return s.repo.Classroom().ListRoutines(ctx, filters)
}

func (s *classroomService) UpdateRoutine(ctx context.Context, actor *models.User, id uint, req *RoutineRequest) (*models.Routine, error) {
	if !IsAdmin(actor) {
		return nil, NewPermissionError(actor.ID, "routine", "update", "admin role required")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	routine, err := s.repo.Classroom().GetRoutine(ctx, id)
	if err != nil {
		return nil, resourceErr(err)
	}

	routine.Semester = models.Semester(req.Semester)
	if req.FilePath != nil {
		routine.FilePath = req.FilePath
	}
	if err := s.repo.Classroom().UpdateRoutine(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

func (s *classroomService) DeleteRoutine(ctx context.Context, actor *models.User, id uint) (*models.Routine, error) {
	if !IsAdmin(actor) {
		return nil, NewPermissionError(actor.ID, "routine", "delete", "admin role required")
	}

	routine, err := s.repo.Classroom().GetRoutine(ctx, id)
	if err != nil {
		return nil, resourceErr(err)
	}
	if err := s.repo.Classroom().DeleteRoutine(ctx, id); err != nil {
		return nil, resourceErr(err)
	}

	s.auditResource(ctx, models.AuditResourceDeleted, actor, "routine", id)
	return routine, nil
}

// ===== NOTICES =====

func (s *classroomService) CreateNotice(ctx context.Context, actor *models.User, req *NoticeRequest) (*models.Notice, error) {
	if !IsAdmin(actor) {
		return nil, NewPermissionError(actor.ID, "notice", "create", "admin role required")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	notice := &models.Notice{
		Title:     req.Title,
		FilePath:  req.FilePath,
		AddedByID: &actor.ID,
	}
	if err := s.repo.Classroom().CreateNotice(ctx, notice); err != nil {
		return nil, err
	}

	s.auditResource(ctx, models.AuditResourceCreated, actor, "notice", notice.ID)

	if err := s.publisher.PublishEvent(ctx, events.NewDomainEvent(events.EventNoticeCreated, events.NoticeCreatedEvent{
		NoticeID: notice.ID,
		Title:    notice.Title,
		AddedBy:  actor.ID,
	})); err != nil {
		s.logger.Warn("Failed to publish notice created event", "notice_id", notice.ID, "error", err)
	}

	return notice, nil
}

func (s *classroomService) GetNotice(ctx context.Context, id uint) (*models.Notice, error) {
	notice, err := s.repo.Classroom().GetNotice(ctx, id)
	if err != nil {
		return nil, resourceErr(err)
	}
	return notice, nil
}

func (s *classroomService) ListNotices(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Notice, error) {
	return s.repo.Classroom().ListNotices(ctx, filters)
}

func (s *classroomService) UpdateNotice(ctx context.Context, actor *models.User, id uint, req *NoticeRequest) (*models.Notice, error) {
	if !IsAdmin(actor) {
		return nil, NewPermissionError(actor.ID, "notice", "update", "admin role required")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	notice, err := s.repo.Classroom().GetNotice(ctx, id)
	if err != nil {
		return nil, resourceErr(err)
	}

	notice.Title = req.Title
	if req.FilePath != nil {
		notice.FilePath = req.FilePath
	}
	if err := s.repo.Classroom().UpdateNotice(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

func (s *classroomService) DeleteNotice(ctx context.Context, actor *models.User, id uint) (*models.Notice, error) {
	if !IsAdmin(actor) {
		return nil, NewPermissionError(actor.ID, "notice", "delete", "admin role required")
	}

	notice, err := s.repo.Classroom().GetNotice(ctx, id)
	if err != nil {
		return nil, resourceErr(err)
	}
	if err := s.repo.Classroom().DeleteNotice(ctx, id); err != nil {
		return nil, resourceErr(err)
	}

	s.auditResource(ctx, models.AuditResourceDeleted, actor, "notice", id)
	return notice, nil
}

// ===== CLASSES =====

func (s *classroomService) CreateClass(ctx context.Context, actor *models.User, req *ClassRequest) (*models.Class, error) {
	if !IsAdminOrTeacher(actor) {
		return nil, NewPermissionError(actor.ID, "class", "create", "admin or teacher role required")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	class := &models.Class{
		Title:     req.Title,
		Semester:  models.Semester(req.Semester),
		FilePath:  req.FilePath,
		Link:      req.Link,
		TeacherID: &actor.ID,
	}
	if err := s.repo.Classroom().CreateClass(ctx, class); err != nil {
		return nil, err
	}

	s.auditResource(ctx, models.AuditResourceCreated, actor, "class", class.ID)
	return class, nil
}

func (s *classroomService) GetClass(ctx context.Context, id uint) (*models.Class, error) {
	class, err := s.repo.Classroom().GetClass(ctx, id)
	if err != nil {
		return nil, resourceErr(err)
	}
	return class, nil
}

func (s *classroomService) ListClasses(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Class, error) {
	return s.repo.Classroom().ListClasses(ctx, filters)
}

func (s *classroomService) UpdateClass(ctx context.Context, actor *models.User, id uint, req *ClassRequest) (*models.Class, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	class, err := s.repo.Classroom().GetClass(ctx, id)
	if err != nil {
		return nil, resourceErr(err)
	}
	if !CanManageOwned(actor, class.OwnerID()) {
		return nil, NewPermissionError(actor.ID, "class", "update", "not the owning teacher")
	}

	class.Title = req.Title
	class.Semester = models.Semester(req.Semester)
	if req.Link != nil {
		class.Link = req.Link
	}
	if req.FilePath != nil {
		class.FilePath = req.FilePath
	}
	if err := s.repo.Classroom().UpdateClass(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

func (s *classroomService) DeleteClass(ctx context.Context, actor *models.User, id uint) (*models.Class, error) {
	class, err := s.repo.Classroom().GetClass(ctx, id)
	if err != nil {
		return nil, resourceErr(err)
	}
	if !CanManageOwned(actor, class.OwnerID()) {
		return nil, NewPermissionError(actor.ID, "class", "delete", "not the owning teacher")
	}
	if err := s.repo.Classroom().DeleteClass(ctx, id); err != nil {
		return nil, resourceErr(err)
	}

	s.auditResource(ctx, models.AuditResourceDeleted, actor, "class", id)
	return class, nil
}

// ===== ASSIGNMENTS =====

func (s *classroomService) CreateAssignment(ctx context.Context, actor *models.User, req *AssignmentRequest) (*models.Assignment, error) {
	if !IsAdminOrTeacher(actor) {
		return nil, NewPermissionError(actor.ID, "assignment", "create", "admin or teacher role required")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		Title:     req.Title,
		Content:   req.Content,
		Semester:  models.Semester(req.Semester),
		FilePath:  req.FilePath,
		TeacherID: &actor.ID,
	}
	if err := s.repo.Classroom().CreateAssignment(ctx, assignment); err != nil {
		return nil, err
	}

	s.auditResource(ctx, models.AuditResourceCreated, actor, "assignment", assignment.ID)

	if err := s.publisher.PublishEvent(ctx, events.NewDomainEvent(events.EventAssignmentCreated, events.AssignmentCreatedEvent{
		AssignmentID: assignment.ID,
		Title:        assignment.Title,
		Semester:     assignment.Semester,
		TeacherID:    actor.ID,
	})); err != nil {
		s.logger.Warn("Failed to publish assignment created event", "assignment_id", assignment.ID, "error", err)
	}

	return assignment, nil
}

func (s *classroomService) GetAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	assignment, err := s.repo.Classroom().GetAssignment(ctx, id)
	if err != nil {
		return nil, resourceErr(err)
	}
	return assignment, nil
}

func (s *classroomService) ListAssignments(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Assignment, error) {
	return s.repo.Classroom().ListAssignments(ctx, filters)
}

func (s *classroomService) UpdateAssignment(ctx context.Context, actor *models.User, id uint, req *AssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	assignment, err := s.repo.Classroom().GetAssignment(ctx, id)
	if err != nil {
		return nil, resourceErr(err)
	}
	if !CanManageOwned(actor, assignment.OwnerID()) {
		return nil, NewPermissionError(actor.ID, "assignment", "update", "not the owning teacher")
	}

	assignment.Title = req.Title
	assignment.Semester = models.Semester(req.Semester)
	if req.Content != nil {
		assignment.Content = req.Content
	}
	if req.FilePath != nil {
		assignment.FilePath = req.FilePath
	}
	if err := s.repo.Classroom().UpdateAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *classroomService) DeleteAssignment(ctx context.Context, actor *models.User, id uint) (*models.Assignment, error) {
	assignment, err := s.repo.Classroom().GetAssignment(ctx, id)
	if err != nil {
		return nil, resourceErr(err)
	}
	if !CanManageOwned(actor, assignment.OwnerID()) {
		return nil, NewPermissionError(actor.ID, "assignment", "delete", "not the owning teacher")
	}
	if err := s.repo.Classroom().DeleteAssignment(ctx, id); err != nil {
		return nil, resourceErr(err)
	}

	s.auditResource(ctx, models.AuditResourceDeleted, actor, "assignment", id)
	return assignment, nil
}

func (s *classroomService) auditResource(ctx context.Context, eventType models.AuditEventType, actor *models.User, resource string, id uint) {
	entry := auditEntry(eventType, actor, resource, map[string]interface{}{"resource": resource})
	entry.TargetType = resource
	entry.TargetID = &id
	recordAudit(ctx, s.repo, s.logger, entry)
}

// resourceErr maps a missing row to the service level not found sentinel.
func resourceErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrResourceNotFound
	}
	return err
}
