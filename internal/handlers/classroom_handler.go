package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lzytourist/digital-classroom/internal/services"
	"github.com/lzytourist/digital-classroom/internal/storage"
	"github.com/lzytourist/digital-classroom/internal/utils"
)

type ClassroomHandler struct {
	BaseHandler
	classroomService services.ClassroomService
	storage          storage.FileStorage
}

func NewClassroomHandler(
	classroomService services.ClassroomService,
	fileStorage storage.FileStorage,
	logger utils.Logger,
) *ClassroomHandler {
	return &ClassroomHandler{
		BaseHandler:      NewBaseHandler(logger),
		classroomService: classroomService,
		storage:          fileStorage,
	}
}

// formFile returns the optional "file" upload, distinguishing a missing file
// from a malformed form.
func (h *ClassroomHandler) formFile(c *gin.Context) (*multipart.FileHeader, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid file upload",
			Details: err.Error(),
		})
		return nil, false
	}
	return file, true
}

// saveUpload stores the upload and returns its relative path, or nil when no
// file was attached. Callers must removeFile the returned path when the
// resource write that references it fails.
func (h *ClassroomHandler) saveUpload(c *gin.Context, subdir string, allowed []string) (*string, bool) {
	file, ok := h.formFile(c)
	if !ok {
		return nil, false
	}
	if file == nil {
		return nil, true
	}

	path, err := h.storage.Save(file, subdir, allowed)
	if err != nil {
		h.handleServiceError(c, err)
		return nil, false
	}
	return &path, true
}

func optionalForm(c *gin.Context, field string) *string {
	if value, ok := c.GetPostForm(field); ok && value != "" {
		return &value
	}
	return nil
}

// ===== ROUTINES =====

func (h *ClassroomHandler) CreateRoutine(c *gin.Context) {
	actor := CurrentUser(c)

	filePath, ok := h.saveUpload(c, "routines", storage.DocumentExtensions)
	if !ok {
		return
	}

	req := services.RoutineRequest{
		Semester: c.PostForm("semester"),
		FilePath: filePath,
	}

	h.LogRequest(c, "Creating routine", "semester", req.Semester)

	routine, err := h.classroomService.CreateRoutine(c.Request.Context(), actor, &req)
	if err != nil {
		h.removeFile(c, filePath)
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, routine)
}

func (h *ClassroomHandler) ListRoutines(c *gin.Context) {
	routines, err := h.classroomService.ListRoutines(c.Request.Context(), h.parseResourceFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, routines)
}

func (h *ClassroomHandler) GetRoutine(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	routine, err := h.classroomService.GetRoutine(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, routine)
}

func (h *ClassroomHandler) UpdateRoutine(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := CurrentUser(c)

	filePath, ok := h.saveUpload(c, "routines", storage.DocumentExtensions)
	if !ok {
		return
	}

	req := services.RoutineRequest{
		Semester: c.PostForm("semester"),
		FilePath: filePath,
	}

	var oldPath *string
	if filePath != nil {
		if existing, err := h.classroomService.GetRoutine(c.Request.Context(), id); err == nil {
			oldPath = existing.FilePath
		}
	}

	routine, err := h.classroomService.UpdateRoutine(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.removeFile(c, filePath)
		h.handleServiceError(c, err)
		return
	}

	h.removeFile(c, oldPath)
	c.JSON(http.StatusOK, routine)
}

func (h *ClassroomHandler) DeleteRoutine(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := CurrentUser(c)

	routine, err := h.classroomService.DeleteRoutine(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.removeFile(c, routine.FilePath)
	c.Status(http.StatusNoContent)
}

// ===== NOTICES =====

func (h *ClassroomHandler) CreateNotice(c *gin.Context) {
	actor := CurrentUser(c)

	filePath, ok := h.saveUpload(c, "notices", storage.DocumentExtensions)
	if !ok {
		return
	}

	req := services.NoticeRequest{
		Title:    c.PostForm("title"),
		FilePath: filePath,
	}

	h.LogRequest(c, "Creating notice", "title", req.Title)

	notice, err := h.classroomService.CreateNotice(c.Request.Context(), actor, &req)
	if err != nil {
		h.removeFile(c, filePath)
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, notice)
}

func (h *ClassroomHandler) ListNotices(c *gin.Context) {
	notices, err := h.classroomService.ListNotices(c.Request.Context(), h.parseResourceFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notices)
}

func (h *ClassroomHandler) GetNotice(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	notice, err := h.classroomService.GetNotice(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notice)
}

func (h *ClassroomHandler) UpdateNotice(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := CurrentUser(c)

	filePath, ok := h.saveUpload(c, "notices", storage.DocumentExtensions)
	if !ok {
		return
	}

	req := services.NoticeRequest{
		Title:    c.PostForm("title"),
		FilePath: filePath,
	}

	var oldPath *string
	if filePath != nil {
		if existing, err := h.classroomService.GetNotice(c.Request.Context(), id); err == nil {
			oldPath = existing.FilePath
		}
	}

	notice, err := h.classroomService.UpdateNotice(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.removeFile(c, filePath)
		h.handleServiceError(c, err)
		return
	}

	h.removeFile(c, oldPath)
	c.JSON(http.StatusOK, notice)
}

func (h *ClassroomHandler) DeleteNotice(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := CurrentUser(c)

	notice, err := h.classroomService.DeleteNotice(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.removeFile(c, notice.FilePath)
	c.Status(http.StatusNoContent)
}

// ===== CLASSES =====

func (h *ClassroomHandler) CreateClass(c *gin.Context) {
	actor := CurrentUser(c)

	filePath, ok := h.saveUpload(c, "classes", storage.VideoExtensions)
	if !ok {
		return
	}

	req := services.ClassRequest{
		Title:    c.PostForm("title"),
		Semester: c.PostForm("semester"),
		Link:     optionalForm(c, "link"),
		FilePath: filePath,
	}

	h.LogRequest(c, "Creating class", "title", req.Title, "semester", req.Semester)

	class, err := h.classroomService.CreateClass(c.Request.Context(), actor, &req)
	if err != nil {
		h.removeFile(c, filePath)
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, class)
}

func (h *ClassroomHandler) ListClasses(c *gin.Context) {
	classes, err := h.classroomService.ListClasses(c.Request.Context(), h.parseResourceFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classes)
}

func (h *ClassroomHandler) GetClass(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	class, err := h.classroomService.GetClass(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, class)
}

func (h *ClassroomHandler) UpdateClass(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := CurrentUser(c)

	filePath, ok := h.saveUpload(c, "classes", storage.VideoExtensions)
	if !ok {
		return
	}

	req := services.ClassRequest{
		Title:    c.PostForm("title"),
		Semester: c.PostForm("semester"),
		Link:     optionalForm(c, "link"),
		FilePath: filePath,
	}

	var oldPath *string
	if filePath != nil {
		if existing, err := h.classroomService.GetClass(c.Request.Context(), id); err == nil {
			oldPath = existing.FilePath
		}
	}

	class, err := h.classroomService.UpdateClass(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.removeFile(c, filePath)
		h.handleServiceError(c, err)
		return
	}

	h.removeFile(c, oldPath)
	c.JSON(http.StatusOK, class)
}

func (h *ClassroomHandler) DeleteClass(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := CurrentUser(c)

	class, err := h.classroomService.DeleteClass(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.removeFile(c, class.FilePath)
	c.Status(http.StatusNoContent)
}

// ===== ASSIGNMENTS =====

func (h *ClassroomHandler) CreateAssignment(c *gin.Context) {
	actor := CurrentUser(c)

	filePath, ok := h.saveUpload(c, "assignments", storage.DocumentExtensions)
	if !ok {
		return
	}

	req := services.AssignmentRequest{
		Title:    c.PostForm("title"),
		Content:  optionalForm(c, "content"),
		Semester: c.PostForm("semester"),
		FilePath: filePath,
	}

	h.LogRequest(c, "Creating assignment", "title", req.Title, "semester", req.Semester)

	assignment, err := h.classroomService.CreateAssignment(c.Request.Context(), actor, &req)
	if err != nil {
		h.removeFile(c, filePath)
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *ClassroomHandler) ListAssignments(c *gin.Context) {
	assignments, err := h.classroomService.ListAssignments(c.Request.Context(), h.parseResourceFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *ClassroomHandler) GetAssignment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	assignment, err := h.classroomService.GetAssignment(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *ClassroomHandler) UpdateAssignment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := CurrentUser(c)

	filePath, ok := h.saveUpload(c, "assignments", storage.DocumentExtensions)
	if !ok {
		return
	}

	req := services.AssignmentRequest{
		Title:    c.PostForm("title"),
		Content:  optionalForm(c, "content"),
		Semester: c.PostForm("semester"),
		FilePath: filePath,
	}

	var oldPath *string
	if filePath != nil {
		if existing, err := h.classroomService.GetAssignment(c.Request.Context(), id); err == nil {
			oldPath = existing.FilePath
		}
	}

	assignment, err := h.classroomService.UpdateAssignment(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.removeFile(c, filePath)
		h.handleServiceError(c, err)
		return
	}

	h.removeFile(c, oldPath)
	c.JSON(http.StatusOK, assignment)
}

func (h *ClassroomHandler) DeleteAssignment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := CurrentUser(c)

	assignment, err := h.classroomService.DeleteAssignment(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.removeFile(c, assignment.FilePath)
	c.Status(http.StatusNoContent)
}

// removeFile deletes stored media after its owning row is gone. Best effort.
func (h *ClassroomHandler) removeFile(c *gin.Context, path *string) {
	if path == nil {
		return
	}
	if err := h.storage.Remove(*path); err != nil {
		h.LogError(c, err, "Failed to remove stored file", "path", *path)
	}
}
