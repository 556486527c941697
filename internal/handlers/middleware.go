package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lzytourist/digital-classroom/internal/services"
)

const (
	// ContextUserKey is the gin context key holding the authenticated user.
	ContextUserKey = "current_user"

	// ContextTokenKey holds the raw token key for logout.
	ContextTokenKey = "auth_token"

	authScheme = "Token"
)

// extractTokenKey parses an "Authorization: Token <key>" header.
func extractTokenKey(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], authScheme) {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware resolves the bearer token into a user and aborts with 401
// when the token is missing, unknown or revoked.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := extractTokenKey(c.GetHeader("Authorization"))
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication credentials were not provided",
			})
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid authentication token",
			})
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, key)
		c.Next()
	}
}
