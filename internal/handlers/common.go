package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lzytourist/digital-classroom/internal/models"
	"github.com/lzytourist/digital-classroom/internal/repositories"
	"github.com/lzytourist/digital-classroom/internal/services"
	"github.com/lzytourist/digital-classroom/internal/storage"
	"github.com/lzytourist/digital-classroom/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
	}
	if user := CurrentUser(c); user != nil {
		fields = append(fields, "user_id", user.ID)
	}
	fields = append(fields, additionalFields...)

	h.logger.Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	if user := CurrentUser(c); user != nil {
		fields = append(fields, "user_id", user.ID)
	}
	fields = append(fields, additionalFields...)

	h.logger.LogError(err, message, fields...)
}

// ===== SHARED HELPERS =====

// CurrentUser returns the authenticated user installed by the auth middleware.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// parseIDParam returns the positive path id, or 0 after writing a 400.
// Zero is rejected here so callers can treat it as the error sentinel.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
		})
		return 0
	}
	return uint(id)
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func (h *BaseHandler) parseResourceFilters(c *gin.Context) repositories.ResourceFilters {
	page := h.parseIntQuery(c, "page", 1)
	size := h.parseIntQuery(c, "size", 20)

	filters := repositories.ResourceFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}

	if semester := c.Query("semester"); semester != "" {
		s := models.Semester(semester)
		filters.Semester = &s
	}

	return filters
}

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	var unsupportedFile *storage.ErrUnsupportedFileType
	if errors.As(err, &unsupportedFile) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported file type",
			Details: unsupportedFile.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrEmailExists):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Email address is already registered",
		})
	case errors.Is(err, services.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid role for this operation",
		})
	case errors.Is(err, services.ErrInvalidLogin):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid credentials or inactive account",
		})
	case errors.Is(err, services.ErrInvalidResetCode):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid reset code",
		})
	case errors.Is(err, services.ErrResetCodeExpired):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Reset code has expired",
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication required",
		})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	case errors.Is(err, services.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Profile not found",
		})
	case errors.Is(err, services.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Not found",
		})
	case errors.Is(err, services.ErrMailDelivery):
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to deliver email",
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
