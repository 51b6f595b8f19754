package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quizmaster/internal/auth"
	"quizmaster/internal/service"
)

// SessionCookie is the name of the login session cookie.
const SessionCookie = "quiz_session"

// loginPath is where unauthenticated or unauthorized callers are sent.
// Redirecting (rather than erroring) is the intended low-friction failure
// mode for the web UI.
const loginPath = "/user"

// Session resolves the session cookie into an auth.Identity and attaches
// it to the request context. Requests without a valid session are
// redirected to the login entry point.
func Session(authSvc service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}

		identity, err := authSvc.Resolve(token)
		if err != nil {
			log.Error().Err(err).Msg("Session middleware: failed to resolve session")
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		if identity == nil {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}

		auth.SetIdentity(c, *identity)
		c.Next()
	}
}

// RequireCapability gates a route group on an explicit capability check
// against the closed role enum.
func RequireCapability(cap auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFrom(c)
		if !ok || !identity.Role.Can(cap) {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
