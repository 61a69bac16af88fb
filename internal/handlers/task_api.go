package handlers

import (
	"net/http"

	"taskman/internal/auth"
	dom "taskman/internal/domain"
	"taskman/internal/dto"
	"taskman/internal/service"

	"github.com/gin-gonic/gin"
)

// TaskAPI serves the JSON task endpoints. All of them run behind the session
// guard; ownership is enforced in the service.
type TaskAPI struct {
	svc *service.TaskService
}

// NewTaskAPI returns a new TaskAPI.
func NewTaskAPI(svc *service.TaskService) *TaskAPI {
	return &TaskAPI{svc: svc}
}

// List godoc
// @Summary      List tasks visible to the caller
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Success      200  {array}   dto.TaskResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/tasks [get]
func (h *TaskAPI) List(c *gin.Context) {
	caller := auth.IdentityFromContext(c)
	list, err := h.svc.List(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "", "Unable to fetch tasks")
		return
	}
	c.JSON(http.StatusOK, tasksToResponses(list))
}

// Get godoc
// @Summary      Get one task
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [get]
func (h *TaskAPI) Get(c *gin.Context) {
	id, ok := parseKey(c, "id", "Invalid task ID format")
	if !ok {
		return
	}
	caller := auth.IdentityFromContext(c)
	t, err := h.svc.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err, "Task not found", "Unable to fetch task")
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Create godoc
// @Summary      Create a task owned by the caller
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/tasks [post]
func (h *TaskAPI) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller := auth.IdentityFromContext(c)
	t, err := h.svc.Create(c.Request.Context(), caller, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    dom.Priority(req.Priority),
		Status:      dom.Status(req.Status),
	})
	if err != nil {
		respondError(c, err, "", "Unable to create task")
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// Update godoc
// @Summary      Update a task (supplied fields only)
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/tasks/{id} [put]
func (h *TaskAPI) Update(c *gin.Context) {
	id, ok := parseKey(c, "id", "Invalid task ID format")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		p := dom.Priority(*req.Priority)
		in.Priority = &p
	}
	if req.Status != nil {
		s := dom.Status(*req.Status)
		in.Status = &s
	}
	caller := auth.IdentityFromContext(c)
	t, err := h.svc.Update(c.Request.Context(), caller, id, in)
	if err != nil {
		respondError(c, err, "Task not found", "Unable to update task")
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [delete]
func (h *TaskAPI) Delete(c *gin.Context) {
	id, ok := parseKey(c, "id", "Invalid task ID format")
	if !ok {
		return
	}
	caller := auth.IdentityFromContext(c)
	if err := h.svc.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err, "Task not found", "Unable to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
