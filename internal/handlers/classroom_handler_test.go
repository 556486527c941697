package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"github.com/lzytourist/digital-classroom/internal/services"
	"github.com/lzytourist/digital-classroom/internal/storage"
	"github.com/lzytourist/digital-classroom/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStorage tracks saved and removed paths without touching disk.
type recordingStorage struct {
	saved   []string
	removed []string
}

func (s *recordingStorage) Save(file *multipart.FileHeader, subdir string, allowed []string) (string, error) {
	if err := storage.ValidateExtension(file.Filename, allowed); err != nil {
		return "", err
	}
	path := filepath.Join(subdir, file.Filename)
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *recordingStorage) Remove(path string) error {
	s.removed = append(s.removed, path)
	return nil
}

// stubClassroomService returns canned entities, or err from every method.
type stubClassroomService struct {
	err        error
	routine    *models.Routine
	notice     *models.Notice
	class      *models.Class
	assignment *models.Assignment
}

func (s *stubClassroomService) CreateRoutine(ctx context.Context, actor *models.User, req *services.RoutineRequest) (*models.Routine, error) {
	return s.routine, s.err
}

func (s *stubClassroomService) GetRoutine(ctx context.Context, id uint) (*models.Routine, error) {
	return s.routine, s.err
}

func (s *stubClassroomService) ListRoutines(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Routine, error) {
	return nil, s.err
}

func (s *stubClassroomService) UpdateRoutine(ctx context.Context, actor *models.User, id uint, req *services.RoutineRequest) (*models.Routine, error) {
	return s.routine, s.err
}

func (s *stubClassroomService) DeleteRoutine(ctx context.Context, actor *models.User, id uint) (*models.Routine, error) {
	return s.routine, s.err
}

func (s *stubClassroomService) CreateNotice(ctx context.Context, actor *models.User, req *services.NoticeRequest) (*models.Notice, error) {
	return s.notice, s.err
}

func (s *stubClassroomService) GetNotice(ctx context.Context, id uint) (*models.Notice, error) {
	return s.notice, s.err
}

func (s *stubClassroomService) ListNotices(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Notice, error) {
	return nil, s.err
}

func (s *stubClassroomService) UpdateNotice(ctx context.Context, actor *models.User, id uint, req *services.NoticeRequest) (*models.Notice, error) {
	return s.notice, s.err
}

func (s *stubClassroomService) DeleteNotice(ctx context.Context, actor *models.User, id uint) (*models.Notice, error) {
	return s.notice, s.err
}

func (s *stubClassroomService) CreateClass(ctx context.Context, actor *models.User, req *services.ClassRequest) (*models.Class, error) {
	return s.class, s.err
}

func (s *stubClassroomService) GetClass(ctx context.Context, id uint) (*models.Class, error) {
	return s.class, s.err
}

func (s *stubClassroomService) ListClasses(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Class, error) {
	return nil, s.err
}

func (s *stubClassroomService) UpdateClass(ctx context.Context, actor *models.User, id uint, req *services.ClassRequest) (*models.Class, error) {
	return s.class, s.err
}

func (s *stubClassroomService) DeleteClass(ctx context.Context, actor *models.User, id uint) (*models.Class, error) {
	return s.class, s.err
}

func (s *stubClassroomService) CreateAssignment(ctx context.Context, actor *models.User, req *services.AssignmentRequest) (*models.Assignment, error) {
	return s.assignment, s.err
}

func (s *stubClassroomService) GetAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	return s.assignment, s.err
}

func (s *stubClassroomService) ListAssignments(ctx context.Context, filters repositories.ResourceFilters) ([]*models.Assignment, error) {
	return nil, s.err
}

func (s *stubClassroomService) UpdateAssignment(ctx context.Context, actor *models.User, id uint, req *services.AssignmentRequest) (*models.Assignment, error) {
	return s.assignment, s.err
}

func (s *stubClassroomService) DeleteAssignment(ctx context.Context, actor *models.User, id uint) (*models.Assignment, error) {
	return s.assignment, s.err
}

func multipartBody(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("content"))
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func newClassroomTestRouter(svc services.ClassroomService, st storage.FileStorage, actor *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewClassroomHandler(svc, st, utils.NewSlogLogger(testDiscardLogger()))
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserKey, actor)
	})
	router.POST("/classes", handler.CreateClass)
	router.PUT("/routines/:id", handler.UpdateRoutine)
	return router
}

func strPtr(s string) *string { return &s }

func TestClassroomHandler_RejectedCreateRemovesUpload(t *testing.T) {
	st := &recordingStorage{}
	svc := &stubClassroomService{
		err: services.NewPermissionError(9, "class", "create", "admin or teacher role required"),
	}
	student := &models.User{ID: 9, Role: models.RoleStudent, IsActive: true}
	router := newClassroomTestRouter(svc, st, student)

	body, contentType := multipartBody(t, "lecture.mp4", map[string]string{
		"title":    "Week 1",
		"semester": "3rd",
	})
	req := httptest.NewRequest(http.MethodPost, "/classes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.Len(t, st.saved, 1)
	assert.Equal(t, st.saved, st.removed)
}

func TestClassroomHandler_UpdateRemovesReplacedFile(t *testing.T) {
	st := &recordingStorage{}
	svc := &stubClassroomService{
		routine: &models.Routine{ID: 5, Semester: models.SemesterThird, FilePath: strPtr("routines/old.pdf")},
	}
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	router := newClassroomTestRouter(svc, st, admin)

	body, contentType := multipartBody(t, "new.pdf", map[string]string{"semester": "3rd"})
	req := httptest.NewRequest(http.MethodPut, "/routines/5", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"routines/new.pdf"}, st.saved)
	assert.Equal(t, []string{"routines/old.pdf"}, st.removed)
}

func TestClassroomHandler_UpdateWithoutFileKeepsExisting(t *testing.T) {
	st := &recordingStorage{}
	svc := &stubClassroomService{
		routine: &models.Routine{ID: 5, Semester: models.SemesterThird, FilePath: strPtr("routines/old.pdf")},
	}
	admin := &models.User{ID: 1, Role: models.RoleAdmin, IsActive: true}
	router := newClassroomTestRouter(svc, st, admin)

	body, contentType := multipartBody(t, "", map[string]string{"semester": "4th"})
	req := httptest.NewRequest(http.MethodPut, "/routines/5", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, st.saved)
	assert.Empty(t, st.removed)
}
