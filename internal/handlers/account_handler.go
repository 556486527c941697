package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lzytourist/digital-classroom/internal/services"
	"github.com/lzytourist/digital-classroom/internal/utils"
)

type AccountHandler struct {
	BaseHandler
	accountService services.AccountService
	authService    services.AuthService
}

func NewAccountHandler(
	accountService services.AccountService,
	authService services.AuthService,
	logger utils.Logger,
) *AccountHandler {
	return &AccountHandler{
		BaseHandler:    NewBaseHandler(logger),
		accountService: accountService,
		authService:    authService,
	}
}

// Register creates a new account with its role profile and returns a token.
// Non-admin accounts start inactive and cannot log in until approved.
func (h *AccountHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Registering user", "email", req.Email, "role", req.Role)

	resp, err := h.accountService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login exchanges credentials for a fresh token, revoking any prior session.
func (h *AccountHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout revokes the caller's token.
func (h *AccountHandler) Logout(c *gin.Context) {
	key := c.GetString(ContextTokenKey)

	if err := h.authService.Logout(c.Request.Context(), key); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Me returns the authenticated user.
func (h *AccountHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateActiveStatus lets an admin activate or deactivate an account.
func (h *AccountHandler) UpdateActiveStatus(c *gin.Context) {
	actor := CurrentUser(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	var req services.ActiveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating active status", "target_user_id", req.UserID)

	if err := h.accountService.SetActiveStatus(c.Request.Context(), actor, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Active status updated"})
}

// ListUsers returns non-admin accounts, optionally filtered by role.
func (h *AccountHandler) ListUsers(c *gin.Context) {
	actor := CurrentUser(c)
	if actor == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	users, err := h.accountService.ListUsers(c.Request.Context(), actor, c.Query("type"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
