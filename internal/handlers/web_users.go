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

// WebUsers serves the admin-only user management pages. The admin gate is the
// RequireAdminWeb middleware; these handlers assume it already ran.
type WebUsers struct {
	svc *service.UserService
}

// NewWebUsers returns a new WebUsers.
func NewWebUsers(svc *service.UserService) *WebUsers {
	return &WebUsers{svc: svc}
}

// ListPage renders all users (hashes never reach the template data).
func (h *WebUsers) ListPage(c *gin.Context) {
	caller := auth.IdentityFromContext(c)
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		msg := "Error loading users"
		if errors.Is(err, service.ErrStoreUnavailable) {
			msg = degradedMsg
		} else {
			log.Printf("list users: %v", err)
		}
		c.HTML(http.StatusOK, "users.html", gin.H{"Users": []dom.User{}, "User": caller, "Error": msg})
		return
	}
	c.HTML(http.StatusOK, "users.html", gin.H{"Users": list, "User": caller, "Error": nil})
}

// CreatePage renders the empty user form.
func (h *WebUsers) CreatePage(c *gin.Context) {
	c.HTML(http.StatusOK, "user-form.html", gin.H{
		"UserData": nil, "User": auth.IdentityFromContext(c), "Mode": "create", "Error": nil,
	})
}

// Create handles the user form post. Admins may pick the role here; an empty
// select falls back to the regular role.
func (h *WebUsers) Create(c *gin.Context) {
	caller := auth.IdentityFromContext(c)
	_, err := h.svc.Create(c.Request.Context(), service.CreateUserInput{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
		Email:    c.PostForm("email"),
		Role:     dom.Role(c.PostForm("role")),
	})
	if err != nil {
		var ve *service.ValidationError
		msg := "Error creating user"
		switch {
		case errors.As(err, &ve):
			msg = ve.Msg
		case errors.Is(err, service.ErrUsernameTaken):
			msg = "Username already exists"
		case errors.Is(err, service.ErrStoreUnavailable):
			msg = degradedMsg
		default:
			log.Printf("create user: %v", err)
		}
		c.HTML(http.StatusOK, "user-form.html", gin.H{
			"UserData": nil, "User": caller, "Mode": "create", "Error": msg,
		})
		return
	}
	c.Redirect(http.StatusFound, "/users")
}

// EditPage renders the form pre-filled with the user; missing ids bounce back
// to the list.
func (h *WebUsers) EditPage(c *gin.Context) {
	caller := auth.IdentityFromContext(c)
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			log.Printf("fetch user: %v", err)
		}
		c.Redirect(http.StatusFound, "/users")
		return
	}
	c.HTML(http.StatusOK, "user-form.html", gin.H{
		"UserData": u, "User": caller, "Mode": "edit", "Error": nil,
	})
}

// Edit handles the edit form post. Username is required on this form; a blank
// password leaves the stored hash untouched.
func (h *WebUsers) Edit(c *gin.Context) {
	caller := auth.IdentityFromContext(c)
	id := c.Param("id")
	u, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.Redirect(http.StatusFound, "/users")
		return
	}

	username := c.PostForm("username")
	if username == "" {
		c.HTML(http.StatusOK, "user-form.html", gin.H{
			"UserData": u, "User": caller, "Mode": "edit", "Error": "Username is required",
		})
		return
	}
	email := c.PostForm("email")
	in := service.UpdateUserInput{Username: &username, Email: &email}
	if password := c.PostForm("password"); password != "" {
		in.Password = &password
	}
	if role := dom.Role(c.PostForm("role")); role != "" {
		in.Role = &role
	}

	if _, err := h.svc.Update(c.Request.Context(), id, in); err != nil {
		var ve *service.ValidationError
		msg := ""
		switch {
		case errors.As(err, &ve):
			msg = ve.Msg
		case errors.Is(err, service.ErrUsernameTaken):
			msg = "Username already exists"
		case errors.Is(err, service.ErrStoreUnavailable):
			msg = degradedMsg
		default:
			log.Printf("update user: %v", err)
			c.Redirect(http.StatusFound, "/users")
			return
		}
		c.HTML(http.StatusOK, "user-form.html", gin.H{
			"UserData": u, "User": caller, "Mode": "edit", "Error": msg,
		})
		return
	}
	c.Redirect(http.StatusFound, "/users")
}

// Delete handles the delete form post; a vanished user just goes back to the
// list.
func (h *WebUsers) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil && !errors.Is(err, service.ErrNotFound) {
		log.Printf("delete user: %v", err)
	}
	c.Redirect(http.StatusFound, "/users")
}
