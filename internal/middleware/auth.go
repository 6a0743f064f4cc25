package middleware

import (
	"net/http"
	"strings"

	"github.com/andreyPromaster/Course/internal/models"
	"github.com/andreyPromaster/Course/internal/services"

	"github.com/gin-gonic/gin"
)

func JWTAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		userID, role, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func RequireTeacher() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleTeacher {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "teacher account required"})
			return
		}
		c.Next()
	}
}

func RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleStudent {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "student account required"})
			return
		}
		c.Next()
	}
}
