package dto

import (
	"time"

	dom "taskman/internal/domain"
)

// CreateUserRequest is the JSON body for POST /api/users. Field-level rules
// live in the service so the error messages stay uniform across API and web.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// UpdateUserRequest is the JSON body for PUT /api/users/:id. Nil fields are
// left untouched.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
}

// UserResponse is a user as returned by the API. There is deliberately no
// password field here: the hash never leaves the service boundary.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      dom.Role  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
