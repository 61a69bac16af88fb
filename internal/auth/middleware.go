package auth

import (
	"net/http"

	dom "taskman/internal/domain"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie set at login/signup.
const CookieName = "session_id"

const contextKeyIdentity = "identity"

// IdentityFromContext returns the caller identity set by the session
// middleware. The zero Identity means no session.
func IdentityFromContext(c *gin.Context) dom.Identity {
	v, ok := c.Get(contextKeyIdentity)
	if !ok {
		return dom.Identity{}
	}
	id, ok := v.(dom.Identity)
	if !ok {
		return dom.Identity{}
	}
	return id
}

func lookup(c *gin.Context, sessions *Store) (dom.Identity, bool) {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return dom.Identity{}, false
	}
	return sessions.Get(c.Request.Context(), token)
}

// RequireSession guards API routes: a missing or invalid session cookie
// yields 401 JSON.
func RequireSession(sessions *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := lookup(c, sessions)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeyIdentity, id)
		c.Next()
	}
}

// RequireSessionWeb guards HTML routes: unauthenticated callers are sent to
// the login page.
func RequireSessionWeb(sessions *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := lookup(c, sessions)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(contextKeyIdentity, id)
		c.Next()
	}
}

// RequireAdminWeb guards the user-management pages: unauthenticated callers
// are sent to the login page, authenticated non-admins get 403.
func RequireAdminWeb(sessions *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := lookup(c, sessions)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if !id.IsAdmin() {
			c.String(http.StatusForbidden, "Access denied. Only admin users can manage users.")
			c.Abort()
			return
		}
		c.Set(contextKeyIdentity, id)
		c.Next()
	}
}

// Optional loads the identity when a valid session cookie is present but
// never rejects. Used by the login and signup pages to bounce callers who
// are already signed in.
func Optional(sessions *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := lookup(c, sessions); ok {
			c.Set(contextKeyIdentity, id)
		}
		c.Next()
	}
}
