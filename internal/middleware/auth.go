package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"workhive-api/internal/auth"
	"workhive-api/internal/models"
)

// Context keys set by Authenticate and read by downstream handlers.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Authenticate validates the bearer token on the request and exposes the
// verified identity to downstream handlers. It always runs before any
// role check.
func Authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		// Fallback for WebSocket/browser where custom headers cannot be set: allow token in query param
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			c.Abort()
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "Token expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, string(claims.Role))

		c.Next()
	}
}

// RequireAdmin rejects authenticated identities whose role is not admin.
// It must be registered after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if models.UserRole(c.GetString(ContextRole)) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied, admin only",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
