package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"codeberg.org/techcorp/supportbot/internal/errors"
)

// requires a valid admin bearer token and stores its subject in the context
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.Unauthorized(c, "authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			errors.Unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := ValidateJWT(parts[1])
		if err != nil {
			errors.Unauthorized(c, "invalid or expired token")
			return
		}

		if claims.Role != RoleAdmin {
			errors.Forbidden(c, "admin token required")
			return
		}

		c.Set(ContextSubjectKey, claims.Subject)

		c.Next()
	}
}

// extracts the admin subject from context after AdminMiddleware
func GetSubject(c *gin.Context) (string, bool) {
	subject, exists := c.Get(ContextSubjectKey)
	if !exists {
		return "", false
	}

	s, ok := subject.(string)

	return s, ok
}
