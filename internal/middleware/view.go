package middleware

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/staffdesk/internal/authz"
	"github.com/yukikurage/staffdesk/internal/constants"
)

// RequireView guards a view. Requests that may not see it are redirected
// with 302; a request without a session first remembers where it was going.
func RequireView(route authz.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := GetSession(c)
		decision := authz.Decide(session, route)
		if decision.Render() {
			c.Next()
			return
		}
		if decision.Outcome == authz.Unauthenticated {
			rememberReturnTo(c, c.Request.URL.RequestURI())
		}
		c.Redirect(http.StatusFound, decision.Redirect)
		c.Abort()
	}
}

// RequireLoginView lets only signed-out requests see the login view.
func RequireLoginView() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := GetSession(c)
		decision := authz.DecideLogin(session)
		if decision.Render() {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, decision.Redirect)
		c.Abort()
	}
}

// FallbackRedirect handles paths that match no route.
func FallbackRedirect() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := GetSession(c)
		c.Redirect(http.StatusFound, authz.Fallback(session))
	}
}

func rememberReturnTo(c *gin.Context, location string) {
	cookie := sessions.Default(c)
	cookie.Set(constants.SessionKeyReturnTo, location)
	if err := cookie.Save(); err != nil {
		log.Printf("Failed to remember return location: %v", err)
	}
}

// TakeReturnTo pops the remembered location from the cookie session. The
// caller saves the session.
func TakeReturnTo(c *gin.Context) string {
	cookie := sessions.Default(c)
	location, _ := cookie.Get(constants.SessionKeyReturnTo).(string)
	if location != "" {
		cookie.Delete(constants.SessionKeyReturnTo)
	}
	return location
}
