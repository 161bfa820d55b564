package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDContextKey   = "user_id"
	userRoleContextKey = "user_role"
)

// TokenVerifier validates a bearer token and returns the authenticated
// user's identity.
type TokenVerifier interface {
	Verify(token string) (userID, role string, err error)
}

// Auth returns a gin middleware that requires a valid "Authorization: Bearer"
// token on every request. On success the user id and role are stored in the
// gin context; on failure the request is aborted with a 401 JSON response.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		userID, role, err := verifier.Verify(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(userIDContextKey, userID)
		c.Set(userRoleContextKey, role)
		c.Next()
	}
}

// RequireRole returns a gin middleware that aborts with 403 unless the
// authenticated user carries the given role. It must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"errors": gin.H{"general": []string{"forbidden"}},
			})
			return
		}
		c.Next()
	}
}

// GetUserID extracts the authenticated user's id from the gin context.
// Returns an empty string if the request is unauthenticated.
func GetUserID(c *gin.Context) string {
	if v, exists := c.Get(userIDContextKey); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserRole extracts the authenticated user's role from the gin context.
func GetUserRole(c *gin.Context) string {
	if v, exists := c.Get(userRoleContextKey); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"errors": gin.H{"general": []string{msg}},
	})
}
