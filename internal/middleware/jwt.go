package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/internal/service"
	apperrors "github.com/clansdown/KingShotMinisterScheduler/pkg/errors"
	"github.com/clansdown/KingShotMinisterScheduler/pkg/response"
)

const (
	// ContextUserID is the gin context key for the authenticated user id.
	ContextUserID = "user_id"
	// ContextUserRole is the gin context key for the authenticated role.
	ContextUserRole = "user_role"
)

// JWTAuth rejects requests lacking a valid bearer token.
func JWTAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin allows only operators with the admin role past this point.
// It must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextUserRole)
		if !ok || role != models.RoleAdmin {
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
