package domain

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// Task is the domain entity for a task.
// CreatedBy is nil only for rows imported from the legacy, pre-ownership
// schema; such tasks are visible to every authenticated user.
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	Status      Status
	CreatedBy   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether the caller may read or mutate the task.
// Admins may touch everything; legacy tasks without an owner are open.
func (t Task) OwnedBy(caller Identity) bool {
	if caller.IsAdmin() {
		return true
	}
	return t.CreatedBy == nil || *t.CreatedBy == caller.UserID
}
