package handlers

import (
	"errors"
	"log"
	"net/http"

	"taskman/internal/auth"
	dom "taskman/internal/domain"
	"taskman/internal/service"

	"github.com/gin-gonic/gin"
)

const degradedMsg = "Service temporarily unavailable. Please try again later."

// WebAuth serves the login, signup, logout and dashboard pages.
type WebAuth struct {
	sessions *auth.Store
	users    *service.UserService
	secure   bool
}

// NewWebAuth returns a new WebAuth. secure marks the session cookie
// secure-only and must be set for TLS deployments.
func NewWebAuth(sessions *auth.Store, users *service.UserService, secure bool) *WebAuth {
	return &WebAuth{sessions: sessions, users: users, secure: secure}
}

// Root sends logged-in callers to the dashboard, everyone else to login.
func (h *WebAuth) Root(c *gin.Context) {
	if auth.IdentityFromContext(c).UserID != "" {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// LoginPage renders the login form; signed-in callers are bounced to the
// dashboard.
func (h *WebAuth) LoginPage(c *gin.Context) {
	if auth.IdentityFromContext(c).UserID != "" {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Error": nil})
}

// Login handles the login form post.
func (h *WebAuth) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "Username and password are required"})
		return
	}
	u, err := h.users.ValidateCredentials(c.Request.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.HTML(http.StatusOK, "login.html", gin.H{"Error": "Invalid username or password"})
		case errors.Is(err, service.ErrStoreUnavailable):
			c.HTML(http.StatusOK, "login.html", gin.H{"Error": degradedMsg})
		default:
			log.Printf("login: %v", err)
			c.HTML(http.StatusOK, "login.html", gin.H{"Error": "An error occurred. Please try again."})
		}
		return
	}
	h.establishSession(c, u, "login.html")
}

// SignupPage renders the signup form.
func (h *WebAuth) SignupPage(c *gin.Context) {
	if auth.IdentityFromContext(c).UserID != "" {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "signup.html", gin.H{"Error": nil})
}

// Signup handles the signup form post. New accounts always get the regular
// user role.
func (h *WebAuth) Signup(c *gin.Context) {
	u, err := h.users.Create(c.Request.Context(), service.CreateUserInput{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
		Email:    c.PostForm("email"),
		Role:     dom.RoleUser,
	})
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			c.HTML(http.StatusOK, "signup.html", gin.H{"Error": ve.Msg})
		case errors.Is(err, service.ErrUsernameTaken):
			c.HTML(http.StatusOK, "signup.html", gin.H{"Error": "Username already exists"})
		case errors.Is(err, service.ErrStoreUnavailable):
			c.HTML(http.StatusOK, "signup.html", gin.H{"Error": degradedMsg})
		default:
			log.Printf("signup: %v", err)
			c.HTML(http.StatusOK, "signup.html", gin.H{"Error": "An error occurred. Please try again."})
		}
		return
	}
	h.establishSession(c, u, "signup.html")
}

// Logout destroys the session unconditionally; repeating it is harmless.
func (h *WebAuth) Logout(c *gin.Context) {
	if token, err := c.Cookie(auth.CookieName); err == nil && token != "" {
		_ = h.sessions.Delete(c.Request.Context(), token)
	}
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.secure, true)
	c.Redirect(http.StatusFound, "/login")
}

// Dashboard renders the landing page for authenticated users.
func (h *WebAuth) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{"User": auth.IdentityFromContext(c)})
}

func (h *WebAuth) establishSession(c *gin.Context, u dom.User, tmpl string) {
	token, err := h.sessions.Create(c.Request.Context(), dom.Identity{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	})
	if err != nil {
		log.Printf("create session: %v", err)
		c.HTML(http.StatusOK, tmpl, gin.H{"Error": "An error occurred. Please try again."})
		return
	}
	c.SetCookie(auth.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", h.secure, true)
	c.Redirect(http.StatusFound, "/dashboard")
}
