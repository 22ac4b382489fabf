package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtracker-web/internal/apierr"
	"github.com/justsurfingit/jobtracker-web/internal/auth"
	"github.com/rs/zerolog/log"
)

const sessionKey = "session"

// SessionMiddleware opens the session cookie, if any, and re-issues it once
// it is older than auth.UpdateAge. It never rejects a request; handlers that
// need a session call requireSession.
func SessionMiddleware(store *auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Load(c.Request)
		if err == nil {
			if _, err := store.Refresh(c.Writer, sess); err != nil {
				log.Warn().Err(err).Msg("session refresh failed")
			}
			c.Set(sessionKey, sess)
		}
		c.Next()
	}
}

// requireSession returns the request's session or writes 401 and returns nil.
func requireSession(c *gin.Context, msg string) *auth.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*auth.Session); ok && sess.Valid() {
			return sess
		}
	}
	writeError(c, apierr.Unauthenticated(msg, auth.ErrNoSession), nil)
	return nil
}

// writeError renders e as {"error": message} plus extra fields.
func writeError(c *gin.Context, e *apierr.Error, extra gin.H) {
	body := gin.H{"error": e.Message}
	for k, v := range extra {
		body[k] = v
	}
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if e.Err != nil {
		_ = c.Error(e)
	}
	c.AbortWithStatusJSON(status, body)
}
