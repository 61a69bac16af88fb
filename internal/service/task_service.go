package service

import (
	"context"
	"errors"
	"strings"

	"taskman/internal/cache"
	dom "taskman/internal/domain"
	"taskman/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

// CreateTaskInput are the fields accepted when creating a task. Empty
// priority and status fall back to the defaults.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    dom.Priority
	Status      dom.Status
}

// UpdateTaskInput are the fields accepted on update; nil means "leave as is".
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *dom.Priority
	Status      *dom.Status
}

// TaskService handles task CRUD with ownership scoping. Every operation takes
// the caller identity: non-admins only reach tasks they created (or legacy
// tasks without an owner), admins reach everything.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	store StoreHealth
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
// If store is nil, the availability check is skipped.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache, store StoreHealth) *TaskService {
	return &TaskService{repo: r, cache: c, store: store}
}

func (s *TaskService) storeReady() error {
	if s.store != nil && !s.store.Available() {
		return ErrStoreUnavailable
	}
	return nil
}

// Create validates input, applies defaults and assigns ownership to the caller.
func (s *TaskService) Create(ctx context.Context, caller dom.Identity, in CreateTaskInput) (dom.Task, error) {
	if err := s.storeReady(); err != nil {
		return dom.Task{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return dom.Task{}, errValidation("Title is required")
	}
	priority := in.Priority
	if priority == "" {
		priority = dom.PriorityMedium
	}
	if !priority.Valid() {
		return dom.Task{}, errValidation("Priority must be one of: low, medium, high")
	}
	status := in.Status
	if status == "" {
		status = dom.StatusPending
	}
	if !status.Valid() {
		return dom.Task{}, errValidation("Status must be one of: pending, in-progress, completed")
	}

	owner := caller.UserID
	t, err := s.repo.Create(ctx, dom.Task{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		Status:      status,
		CreatedBy:   &owner,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidate(ctx, t)
	return t, nil
}

// List returns the caller's tasks, newest first; admins get every task.
// Listings are cached per scope with singleflight collapsing concurrent misses.
func (s *TaskService) List(ctx context.Context, caller dom.Identity) ([]dom.Task, error) {
	if err := s.storeReady(); err != nil {
		return nil, err
	}
	key := cache.OwnerKey(caller.UserID)
	fetch := func(ctx context.Context) ([]dom.Task, error) { return s.repo.ListByOwner(ctx, caller.UserID) }
	if caller.IsAdmin() {
		key = cache.AllKey()
		fetch = s.repo.ListAll
	}
	if s.cache == nil {
		return fetch(ctx)
	}
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx, key); err == nil && list != nil {
			return list, nil
		}
		list, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, key, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

// Get returns the task if the caller may see it.
func (s *TaskService) Get(ctx context.Context, caller dom.Identity, id string) (dom.Task, error) {
	if err := s.storeReady(); err != nil {
		return dom.Task{}, err
	}
	return s.authorized(ctx, caller, id)
}

// Update overwrites only the supplied fields after the ownership check.
func (s *TaskService) Update(ctx context.Context, caller dom.Identity, id string, in UpdateTaskInput) (dom.Task, error) {
	if err := s.storeReady(); err != nil {
		return dom.Task{}, err
	}
	existing, err := s.authorized(ctx, caller, id)
	if err != nil {
		return dom.Task{}, err
	}

	patch := existing
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return dom.Task{}, errValidation("Title is required")
		}
		patch.Title = title
	}
	if in.Description != nil {
		patch.Description = strings.TrimSpace(*in.Description)
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return dom.Task{}, errValidation("Priority must be one of: low, medium, high")
		}
		patch.Priority = *in.Priority
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return dom.Task{}, errValidation("Status must be one of: pending, in-progress, completed")
		}
		patch.Status = *in.Status
	}

	t, err := s.repo.Update(ctx, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidate(ctx, t)
	return t, nil
}

// Delete removes the task after the ownership check. A repeat delete on the
// same ID reports ErrNotFound.
func (s *TaskService) Delete(ctx context.Context, caller dom.Identity, id string) error {
	if err := s.storeReady(); err != nil {
		return err
	}
	existing, err := s.authorized(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidate(ctx, existing)
	return nil
}

// authorized fetches the task and enforces the ownership invariant:
// owner, admin, or a legacy task with no owner.
func (s *TaskService) authorized(ctx context.Context, caller dom.Identity, id string) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	if !t.OwnedBy(caller) {
		return dom.Task{}, ErrForbidden
	}
	return t, nil
}

func (s *TaskService) invalidate(ctx context.Context, t dom.Task) {
	if s.cache == nil {
		return
	}
	keys := []string{cache.AllKey()}
	if t.CreatedBy != nil {
		keys = append(keys, cache.OwnerKey(*t.CreatedBy))
	}
	_ = s.cache.Invalidate(ctx, keys...)
}
