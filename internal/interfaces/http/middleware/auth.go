// Package middleware contains the gin middleware for authentication,
// authorization and rate limiting.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"lucerna/internal/infrastructure/auth"
	"lucerna/internal/shared/authorization"
	"lucerna/internal/shared/constants"
	"lucerna/internal/shared/utils"
)

// RequireAuth validates the Bearer access token and stores the caller's
// identity on the request context. Only access tokens pass; refresh and
// single-purpose tokens are rejected.
func RequireAuth(jwtService auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.ErrorResponse(c, 401, "Please authenticate")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := jwtService.Verify(token, auth.TokenTypeAccess)
		if err != nil {
			utils.ErrorResponse(c, 401, "Please authenticate")
			c.Abort()
			return
		}

		userID, err := claims.SubjectUserID()
		if err != nil {
			utils.ErrorResponse(c, 401, "Please authenticate")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyUserRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin allows only callers whose access token carries the admin
// role. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(constants.ContextKeyUserRole)
		roleStr, ok := role.(string)
		if !ok || !authorization.UserRole(roleStr).IsAdmin() {
			utils.ErrorResponse(c, 403, "Forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID extracts the authenticated user ID from the gin context.
func GetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
