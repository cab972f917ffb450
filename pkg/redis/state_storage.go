package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/orggate/pkg/auth"
)

// Ensure StateStorage implements auth.StateStorage.
var _ auth.StateStorage = (*StateStorage)(nil)

// StateStorage keeps one-time OAuth state tokens in Redis with a TTL.
// Consumption uses GETDEL, so a token can be redeemed exactly once even when
// callbacks race across instances.
type StateStorage struct {
	db     redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewStateStorage wraps client. Keys are namespaced with cfg.KeyPrefix.
func NewStateStorage(client redis.UniversalClient, cfg Config) *StateStorage {
	return &StateStorage{
		db:     client,
		prefix: cfg.KeyPrefix,
		now:    time.Now,
	}
}

// StoreState saves state until expiresAt. States already expired are rejected.
func (s *StateStorage) StoreState(ctx context.Context, state string, expiresAt time.Time) error {
	if state == "" {
		return ErrEmptyState
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("oauth state already expired at %s", expiresAt.Format(time.RFC3339))
	}
	if err := s.db.Set(ctx, s.prefix+state, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

// ConsumeState deletes state, returning auth.ErrStateNotFound if it was never
// stored, has expired or was consumed before.
func (s *StateStorage) ConsumeState(ctx context.Context, state string) error {
	if state == "" {
		return auth.ErrStateNotFound
	}
	err := s.db.GetDel(ctx, s.prefix+state).Err()
	switch {
	case errors.Is(err, redis.Nil):
		return auth.ErrStateNotFound
	case err != nil:
		return fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return nil
}
