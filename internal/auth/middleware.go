package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/studytrack/studytrack/pkg/utils"
)

// AuthMiddleware validates the Bearer token and stores user_id and username
// in the request context. Requests without a resolvable owner are refused
// here, before any store call is issued. The handler carries the logout
// blacklist; a nil handler skips the revocation check.
func AuthMiddleware(jwtSecret string, h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1], jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if h != nil && h.isBlacklisted(parts[1]) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}
