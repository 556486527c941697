package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lzytourist/digital-classroom/internal/services"
	"github.com/lzytourist/digital-classroom/internal/utils"
)

type RecoveryHandler struct {
	BaseHandler
	recoveryService services.RecoveryService
}

func NewRecoveryHandler(recoveryService services.RecoveryService, logger utils.Logger) *RecoveryHandler {
	return &RecoveryHandler{
		BaseHandler:     NewBaseHandler(logger),
		recoveryService: recoveryService,
	}
}

// RequestReset mails a six digit reset code to the account's email address.
func (h *RecoveryHandler) RequestReset(c *gin.Context) {
	var req services.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Password reset requested", "email", req.Email)

	if err := h.recoveryService.RequestReset(c.Request.Context(), &req); err != nil {
		h.handleRecoveryError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Password reset code sent"})
}

// ConfirmReset consumes a valid code and sets the new password.
func (h *RecoveryHandler) ConfirmReset(c *gin.Context) {
	var req services.ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Password reset confirmation", "email", req.Email)

	if err := h.recoveryService.ConfirmReset(c.Request.Context(), &req); err != nil {
		h.handleRecoveryError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Password has been reset"})
}

// handleRecoveryError narrows unknown-email failures to a 400 so the reset
// endpoints answer bad input uniformly instead of exposing a lookup miss.
func (h *RecoveryHandler) handleRecoveryError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrUserNotFound) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "No account found with this email"})
		return
	}
	h.handleServiceError(c, err)
}
