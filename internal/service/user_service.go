package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	dom "taskman/internal/domain"
	"taskman/internal/repo"
	"taskman/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 30
	passwordMinLen = 6
)

// CreateUserInput are the fields accepted when creating a user. Role is only
// honored on the admin surface; public callers get RoleUser.
type CreateUserInput struct {
	Username string
	Password string
	Email    string
	Role     dom.Role
}

// UpdateUserInput are the fields accepted on update. Nil means "leave as is";
// an empty username or password is also treated as absent, matching the form
// semantics of the web pages.
type UpdateUserInput struct {
	Username *string
	Password *string
	Email    *string
	Role     *dom.Role
}

// UserService handles user accounts and credentials.
type UserService struct {
	repo  repo.UserRepo
	store StoreHealth
}

// NewUserService returns a new UserService. If store is nil the availability
// check is skipped.
func NewUserService(r repo.UserRepo, store StoreHealth) *UserService {
	return &UserService{repo: r, store: store}
}

func (s *UserService) storeReady() error {
	if s.store != nil && !s.store.Available() {
		return ErrStoreUnavailable
	}
	return nil
}

// ValidateCredentials checks username and password; returns the user if valid.
// A missing user and a wrong password are deliberately indistinguishable.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	if err := s.storeReady(); err != nil {
		return dom.User{}, err
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Create validates input, hashes the password and persists the user.
// A duplicate username maps to ErrUsernameTaken; the unique index on username
// is the backstop against concurrent duplicate signups.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (dom.User, error) {
	if err := s.storeReady(); err != nil {
		return dom.User{}, err
	}
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return dom.User{}, errValidation("Username and password are required")
	}
	if n := utf8.RuneCountInString(username); n < usernameMinLen || n > usernameMaxLen {
		return dom.User{}, errValidation("Username must be between 3 and 30 characters")
	}
	if len(in.Password) < passwordMinLen {
		return dom.User{}, errValidation("Password must be at least 6 characters long")
	}
	role := in.Role
	if role == "" {
		role = dom.RoleUser
	}
	if !role.Valid() {
		return dom.User{}, errValidation("Role must be one of: user, admin")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, dom.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        normalizeEmail(in.Email),
		Role:         role,
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// List returns all users, newest first.
func (s *UserService) List(ctx context.Context) ([]dom.User, error) {
	if err := s.storeReady(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Get returns the user by ID. Key well-formedness is the handler's concern.
func (s *UserService) Get(ctx context.Context, id string) (dom.User, error) {
	if err := s.storeReady(); err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// Update overwrites only the supplied fields. A non-empty password is
// re-hashed; a username change is checked for uniqueness by the store's
// unique index (excluding self, since the row keeps its ID).
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (dom.User, error) {
	if err := s.storeReady(); err != nil {
		return dom.User{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}

	patch := existing
	if in.Username != nil && strings.TrimSpace(*in.Username) != "" {
		username := strings.TrimSpace(*in.Username)
		if n := utf8.RuneCountInString(username); n < usernameMinLen || n > usernameMaxLen {
			return dom.User{}, errValidation("Username must be between 3 and 30 characters")
		}
		patch.Username = username
	}
	if in.Password != nil && *in.Password != "" {
		if len(*in.Password) < passwordMinLen {
			return dom.User{}, errValidation("Password must be at least 6 characters long")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return dom.User{}, err
		}
		patch.PasswordHash = string(hash)
	}
	if in.Email != nil {
		patch.Email = normalizeEmail(*in.Email)
	}
	if in.Role != nil && *in.Role != "" {
		if !in.Role.Valid() {
			return dom.User{}, errValidation("Role must be one of: user, admin")
		}
		patch.Role = *in.Role
	}

	u, err := s.repo.Update(ctx, patch)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// Delete removes the user. A repeat delete on the same ID reports ErrNotFound.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.storeReady(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// EnsureAdmin creates the admin account at startup when it does not exist.
// Idempotent across restarts; a concurrent boot losing the insert race is
// treated as success.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.repo.Create(ctx, dom.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         dom.RoleAdmin,
	})
	if utils.IsPGUniqueViolation(err) {
		return nil
	}
	if err == nil {
		log.Printf("seeded admin user %q", username)
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
