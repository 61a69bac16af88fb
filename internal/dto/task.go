package dto

import (
	"time"

	dom "taskman/internal/domain"
)

// CreateTaskRequest is the JSON body for POST /api/tasks. Empty priority and
// status fall back to medium/pending.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

// UpdateTaskRequest is the JSON body for PUT /api/tasks/:id. Nil fields are
// left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

// TaskResponse is a task as returned by the API.
type TaskResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    dom.Priority `json:"priority"`
	Status      dom.Status   `json:"status"`
	CreatedBy   *string      `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
