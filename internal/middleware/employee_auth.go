package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/staffdesk/internal/errors"
)

// RequireEmployeeManagement hides the employee mutation endpoints unless
// the service runs in managed-employee mode.
func RequireEmployeeManagement(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			apierrors.NotFound(c, "")
			return
		}
		c.Next()
	}
}
