package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the session ID issued by the login handler.
const SessionCookie = "session_id"

const contextKeyUsername = "username"

// Policy decides whether a request may reach the note routes.
type Policy interface {
	Allow(c *gin.Context) bool
}

// AllowAll is the default policy: the hook exists, nothing is enforced.
type AllowAll struct{}

func (AllowAll) Allow(*gin.Context) bool { return true }

// SessionPolicy admits requests that carry a live session cookie and stores
// the session owner in the gin context.
type SessionPolicy struct {
	sessions *Store
}

func NewSessionPolicy(sessions *Store) *SessionPolicy {
	return &SessionPolicy{sessions: sessions}
}

func (p *SessionPolicy) Allow(c *gin.Context) bool {
	sessionID, err := c.Cookie(SessionCookie)
	if err != nil || sessionID == "" {
		return false
	}
	username, ok, err := p.sessions.Username(c.Request.Context(), sessionID)
	if err != nil {
		_ = c.Error(err)
		return false
	}
	if !ok {
		return false
	}
	SetUsername(c, username)
	return true
}

// SetUsername records the authenticated user for later handlers and the request log.
func SetUsername(c *gin.Context, username string) {
	c.Set(contextKeyUsername, username)
}

// UsernameFromContext returns the user set by SessionPolicy, "" if none.
func UsernameFromContext(c *gin.Context) string {
	return c.GetString(contextKeyUsername)
}

// Authorize is the authorization stage of the pipeline. Requests the policy
// rejects get 401.
func Authorize(p Policy) gin.HandlerFunc {
	if p == nil {
		p = AllowAll{}
	}
	return func(c *gin.Context) {
		if !p.Allow(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Next()
	}
}
