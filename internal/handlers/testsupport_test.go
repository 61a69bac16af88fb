package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"taskman/internal/auth"
	dom "taskman/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Minimal in-memory repos with the Postgres error surface the services
// expect: pgx.ErrNoRows for misses, PgError 23505 on duplicate usernames.

type stubUserRepo struct {
	mu    sync.Mutex
	users []dom.User
}

func (r *stubUserRepo) Create(_ context.Context, u dom.User) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		if e.Username == u.Username {
			return dom.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	r.users = append(r.users, u)
	return u, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		if e.ID == id {
			return e, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		if e.Username == username {
			return e, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *stubUserRepo) List(_ context.Context) ([]dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dom.User, 0, len(r.users))
	for i := len(r.users) - 1; i >= 0; i-- {
		out = append(out, r.users[i])
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u dom.User) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		if e.ID != u.ID && e.Username == u.Username {
			return dom.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	for i, e := range r.users {
		if e.ID == u.ID {
			u.CreatedAt = e.CreatedAt
			u.UpdatedAt = time.Now()
			r.users[i] = u
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
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

type stubTaskRepo struct {
	mu    sync.Mutex
	tasks []dom.Task
}

func (r *stubTaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt = time.Now(), time.Now()
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *stubTaskRepo) GetByID(_ context.Context, id string) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.tasks {
		if e.ID == id {
			return e, nil
		}
	}
	return dom.Task{}, pgx.ErrNoRows
}

func (r *stubTaskRepo) ListAll(_ context.Context) ([]dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dom.Task, 0, len(r.tasks))
	for i := len(r.tasks) - 1; i >= 0; i-- {
		out = append(out, r.tasks[i])
	}
	return out, nil
}

func (r *stubTaskRepo) ListByOwner(_ context.Context, userID string) ([]dom.Task, error) {
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

func (r *stubTaskRepo) Update(_ context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.tasks {
		if e.ID == t.ID {
			t.CreatedAt = e.CreatedAt
			t.CreatedBy = e.CreatedBy
			t.UpdatedAt = time.Now()
			r.tasks[i] = t
			return t, nil
		}
	}
	return dom.Task{}, pgx.ErrNoRows
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
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

func newSessionStore(t *testing.T) (*auth.Store, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return auth.NewStore(rdb, time.Hour), func() {
		rdb.Close()
		mr.Close()
	}
}

func sessionCookie(t *testing.T, store *auth.Store, id dom.Identity) *http.Cookie {
	t.Helper()
	token, err := store.Create(context.Background(), id)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return m
}
