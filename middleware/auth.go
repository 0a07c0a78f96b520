package middleware

import (
	"net/http"
	"strings"

	"laptop-request-api/services"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextAdminID = "adminID"
	ContextEmail   = "email"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	ParseToken(tokenString string) (*services.Claims, error)
}

// AuthMiddleware validates JWT token
func AuthMiddleware(auth TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header is required"})
			c.Abort()
			return
		}

		// Check Bearer prefix
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Set admin info in context
		c.Set(ContextAdminID, claims.UID)
		c.Set(ContextEmail, claims.Email)

		c.Next()
	}
}

// AdminID returns the authenticated admin uid, or "" outside AuthMiddleware.
func AdminID(c *gin.Context) string {
	return c.GetString(ContextAdminID)
}
