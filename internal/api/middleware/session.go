package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gridcfg.io/console/internal/logging"
	"gridcfg.io/console/internal/session"
)

const (
	// SessionCookie is the cookie carrying the session ID.
	SessionCookie = "gridcfg_session"

	// HeaderSessionID carries the session ID for non-browser clients.
	HeaderSessionID = "X-Gridcfg-Session"

	sessionMaxAge = 30 * 24 * 60 * 60
)

// Session binds every request to a session.
//
// The session ID is taken from the X-Gridcfg-Session header, then from the
// gridcfg_session cookie. A missing or malformed ID starts a new session.
// The effective ID is echoed in both the header and the cookie so that
// browsers and SDK clients keep their selection across requests.
//
// Returns:
//   - Gin middleware handler function
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderSessionID)
		if !session.ValidID(id) {
			id, _ = c.Cookie(SessionCookie)
		}
		if !session.ValidID(id) {
			id = session.NewID()
			GetLogger(c).Debug("started new session", zap.String(logging.FieldSessionID, id))
		}

		c.Set(ContextKeySessionID, id)
		c.Header(HeaderSessionID, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", false, true)

		ctx := logging.AddFields(c.Request.Context(), zap.String(logging.FieldSessionID, id))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetSessionID retrieves the session ID bound by Session.
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
