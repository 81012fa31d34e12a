package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const errForbidden = "Forbidden: manager role required"

// RequireManager gates a route to employees whose JWT carries is_manager.
// Must run after Auth.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		isManager, _ := c.Get("isManager")
		if managerFlag, ok := isManager.(bool); !ok || !managerFlag {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": errForbidden})
			return
		}
		c.Next()
	}
}
