package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/staffdesk/internal/constants"
	apierrors "github.com/yukikurage/staffdesk/internal/errors"
	"github.com/yukikurage/staffdesk/internal/models"
)

// SessionSource exposes the current session of the gate.
type SessionSource interface {
	Current() *models.Session
}

// LoadSession stores a copy of the current session in the context so one
// request sees a single consistent value.
func LoadSession(source SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session := source.Current(); session != nil {
			c.Set(constants.ContextKeySession, session)
		}
		c.Next()
	}
}

// GetSession retrieves the session loaded for this request
func GetSession(c *gin.Context) (*models.Session, bool) {
	value, exists := c.Get(constants.ContextKeySession)
	if !exists {
		return nil, false
	}
	session, ok := value.(*models.Session)
	if !ok || session == nil {
		return nil, false
	}
	return session, true
}

// RequireAuth rejects API requests made without a session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := GetSession(c); !exists {
			apierrors.Unauthorized(c, "")
			return
		}
		c.Next()
	}
}

// RequireRoles rejects API requests whose session role is not listed
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, exists := GetSession(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}
		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}
		apierrors.Forbidden(c, "Your role cannot perform this action")
	}
}
