package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "taskman/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyAll         = "tasks:all"
	keyOwnerPrefix = "tasks:user:"
)

// TaskCache caches task listings in Redis: one key per owner plus one for the
// admin-wide listing. Writes invalidate both.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// AllKey is the cache scope for the admin-wide listing.
func AllKey() string { return keyAll }

// OwnerKey is the cache scope for one user's listing.
func OwnerKey(userID string) string { return keyOwnerPrefix + userID }

// GetList returns the cached listing for the scope, or nil on a miss.
func (c *TaskCache) GetList(ctx context.Context, key string) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the listing under the scope key. An empty listing is stored
// as [] rather than null, so GetList can tell it apart from a miss.
func (c *TaskCache) SetList(ctx context.Context, key string, list []dom.Task) error {
	if list == nil {
		list = []dom.Task{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// Invalidate removes the given scope keys (cache invalidation on write).
func (c *TaskCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
