package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	dom "taskman/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	defaultTTL       = 24 * time.Hour
)

// Store manages sessions in Redis. A session maps an opaque token to the
// caller identity and expires after the configured TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new session store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL returns the session lifetime (also used for the cookie max-age).
func (s *Store) TTL() time.Duration { return s.ttl }

// Create stores a new session for the identity and returns its token.
func (s *Store) Create(ctx context.Context, id dom.Identity) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Get returns the identity bound to the token, or false if the session is
// missing, expired or unreadable.
func (s *Store) Get(ctx context.Context, token string) (dom.Identity, bool) {
	b, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		return dom.Identity{}, false
	}
	var id dom.Identity
	if err := json.Unmarshal(b, &id); err != nil {
		return dom.Identity{}, false
	}
	return id, true
}

// Delete removes a session by token. Deleting an absent token is a no-op.
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
