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

// WebTasks serves the server-rendered task pages. Routes run behind the web
// session guard; ownership is enforced in the service.
type WebTasks struct {
	svc *service.TaskService
}

// NewWebTasks returns a new WebTasks.
func NewWebTasks(svc *service.TaskService) *WebTasks {
	return &WebTasks{svc: svc}
}

// ListPage renders the caller's tasks. Store failures degrade to an inline
// message over an empty list instead of a blank 500.
func (h *WebTasks) ListPage(c *gin.Context) {
	caller := auth.IdentityFromContext(c)
	list, err := h.svc.List(c.Request.Context(), caller)
	if err != nil {
		msg := "Error loading tasks"
		if errors.Is(err, service.ErrStoreUnavailable) {
			msg = degradedMsg
		} else {
			log.Printf("list tasks: %v", err)
		}
		c.HTML(http.StatusOK, "tasks.html", gin.H{"Tasks": []dom.Task{}, "User": caller, "Error": msg})
		return
	}
	c.HTML(http.StatusOK, "tasks.html", gin.H{"Tasks": list, "User": caller, "Error": nil})
}

// CreatePage renders the empty task form.
func (h *WebTasks) CreatePage(c *gin.Context) {
	c.HTML(http.StatusOK, "task-form.html", gin.H{
		"Task": nil, "User": auth.IdentityFromContext(c), "Mode": "create", "Error": nil,
	})
}

// Create handles the task form post.
func (h *WebTasks) Create(c *gin.Context) {
	caller := auth.IdentityFromContext(c)
	_, err := h.svc.Create(c.Request.Context(), caller, service.CreateTaskInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Priority:    dom.Priority(c.PostForm("priority")),
		Status:      dom.Status(c.PostForm("status")),
	})
	if err != nil {
		var ve *service.ValidationError
		msg := "Error creating task"
		switch {
		case errors.As(err, &ve):
			msg = ve.Msg
		case errors.Is(err, service.ErrStoreUnavailable):
			msg = degradedMsg
		default:
			log.Printf("create task: %v", err)
		}
		c.HTML(http.StatusOK, "task-form.html", gin.H{
			"Task": nil, "User": caller, "Mode": "create", "Error": msg,
		})
		return
	}
	c.Redirect(http.StatusFound, "/tasks")
}

// EditPage renders the form pre-filled with the task. Missing or malformed
// ids bounce back to the list; foreign tasks are a 403.
func (h *WebTasks) EditPage(c *gin.Context) {
	caller := auth.IdentityFromContext(c)
	t, ok := h.loadForWrite(c, caller, "edit")
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "task-form.html", gin.H{
		"Task": t, "User": caller, "Mode": "edit", "Error": nil,
	})
}

// Edit handles the edit form post. The form always submits the full field
// set, so this is a whole-record overwrite.
func (h *WebTasks) Edit(c *gin.Context) {
	caller := auth.IdentityFromContext(c)
	t, ok := h.loadForWrite(c, caller, "edit")
	if !ok {
		return
	}
	title := c.PostForm("title")
	description := c.PostForm("description")
	priority := dom.Priority(c.PostForm("priority"))
	status := dom.Status(c.PostForm("status"))

	_, err := h.svc.Update(c.Request.Context(), caller, t.ID, service.UpdateTaskInput{
		Title:       &title,
		Description: &description,
		Priority:    &priority,
		Status:      &status,
	})
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			c.HTML(http.StatusOK, "task-form.html", gin.H{
				"Task": t, "User": caller, "Mode": "edit", "Error": ve.Msg,
			})
			return
		}
		log.Printf("update task: %v", err)
		c.Redirect(http.StatusFound, "/tasks")
		return
	}
	c.Redirect(http.StatusFound, "/tasks")
}

// Delete handles the delete form post. A vanished task just goes back to the
// list; a foreign task is a 403.
func (h *WebTasks) Delete(c *gin.Context) {
	caller := auth.IdentityFromContext(c)
	err := h.svc.Delete(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.String(http.StatusForbidden, "Access denied. You may only delete your own tasks.")
			return
		}
		if !errors.Is(err, service.ErrNotFound) {
			log.Printf("delete task: %v", err)
		}
	}
	c.Redirect(http.StatusFound, "/tasks")
}

func (h *WebTasks) loadForWrite(c *gin.Context, caller dom.Identity, verb string) (dom.Task, bool) {
	t, err := h.svc.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.String(http.StatusForbidden, "Access denied. You may only "+verb+" your own tasks.")
			return dom.Task{}, false
		}
		if !errors.Is(err, service.ErrNotFound) {
			log.Printf("fetch task: %v", err)
		}
		c.Redirect(http.StatusFound, "/tasks")
		return dom.Task{}, false
	}
	return t, true
}
