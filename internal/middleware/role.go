package middleware

import (
	"net/http"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireAdmin rejects callers whose user row is not flagged admin.
// Must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
			return
		}

		if !user.IsAdmin {
			log.WithField("user_id", user.ID).WithField("path", c.Request.URL.Path).Warn("Admin route denied")
			c.AbortWithStatusJSON(http.StatusForbidden,
				models.NewAPIError(models.ErrForbidden, "Admin access required"))
			return
		}

		c.Next()
	}
}
