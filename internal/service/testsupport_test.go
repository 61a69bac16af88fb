package service

import (
	"context"
	"sync"
	"time"

	dom "taskman/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// In-memory repos reproducing the Postgres error surface: pgx.ErrNoRows for
// missing rows, PgError 23505 for unique violations.

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type memUserRepo struct {
	mu    sync.Mutex
	users []dom.User
	clock time.Time
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{clock: time.Unix(1700000000, 0)}
}

func (r *memUserRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *memUserRepo) Create(_ context.Context, u dom.User) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		if e.Username == u.Username {
			return dom.User{}, uniqueViolation("users_username_key")
		}
	}
	u.ID = uuid.NewString()
	now := r.tick()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users = append(r.users, u)
	return u, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		if e.ID == id {
			return e, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		if e.Username == username {
			return e, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *memUserRepo) List(_ context.Context) ([]dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dom.User, 0, len(r.users))
	for i := len(r.users) - 1; i >= 0; i-- {
		out = append(out, r.users[i])
	}
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, u dom.User) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		if e.ID != u.ID && e.Username == u.Username {
			return dom.User{}, uniqueViolation("users_username_key")
		}
	}
	for i, e := range r.users {
		if e.ID == u.ID {
			u.CreatedAt = e.CreatedAt
			u.UpdatedAt = r.tick()
			r.users[i] = u
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.users {
		if e.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memTaskRepo struct {
	mu    sync.Mutex
	tasks []dom.Task
	clock time.Time
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{clock: time.Unix(1700000000, 0)}
}

func (r *memTaskRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *memTaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.NewString()
	now := r.tick()
	t.CreatedAt, t.UpdatedAt = now, now
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.tasks {
		if e.ID == id {
			return e, nil
		}
	}
	return dom.Task{}, pgx.ErrNoRows
}

func (r *memTaskRepo) ListAll(_ context.Context) ([]dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dom.Task, 0, len(r.tasks))
	for i := len(r.tasks) - 1; i >= 0; i-- {
		out = append(out, r.tasks[i])
	}
	return out, nil
}

func (r *memTaskRepo) ListByOwner(_ context.Context, userID string) ([]dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dom.Task
	for i := len(r.tasks) - 1; i >= 0; i-- {
		if r.tasks[i].CreatedBy != nil && *r.tasks[i].CreatedBy == userID {
			out = append(out, r.tasks[i])
		}
	}
	return out, nil
}

func (r *memTaskRepo) Update(_ context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.tasks {
		if e.ID == t.ID {
			t.CreatedAt = e.CreatedAt
			t.CreatedBy = e.CreatedBy
			t.UpdatedAt = r.tick()
			r.tasks[i] = t
			return t, nil
		}
	}
	return dom.Task{}, pgx.ErrNoRows
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.tasks {
		if e.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// insertLegacy adds a task with no owner, as left behind by the
// pre-ownership schema.
func (r *memTaskRepo) insertLegacy(title string) dom.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := dom.Task{
		ID:       uuid.NewString(),
		Title:    title,
		Priority: dom.PriorityMedium,
		Status:   dom.StatusPending,
	}
	now := r.tick()
	t.CreatedAt, t.UpdatedAt = now, now
	r.tasks = append(r.tasks, t)
	return t
}

// staticHealth is a StoreHealth stub with a fixed answer.
type staticHealth bool

func (h staticHealth) Available() bool { return bool(h) }
