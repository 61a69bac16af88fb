package domain

import "time"

// Role distinguishes privileged callers. Privilege is carried by the role
// attribute, not by any reserved username.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the domain entity for a user account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the session payload for an authenticated caller.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the caller carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
