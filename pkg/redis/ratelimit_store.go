package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/orggate/pkg/ratelimit"
)

var _ ratelimit.Store = (*RateLimitStore)(nil)

// RateLimitStore counts rate limit hits with INCR. The window's expiry is
// set by the hit that opens it, so all instances share the same window.
type RateLimitStore struct {
	db     redis.UniversalClient
	prefix string
}

// NewRateLimitStore wraps client. Keys are namespaced with cfg.RateLimitKeyPrefix.
func NewRateLimitStore(client redis.UniversalClient, cfg Config) *RateLimitStore {
	return &RateLimitStore{db: client, prefix: cfg.RateLimitKeyPrefix}
}

// Increment implements ratelimit.Store.
func (s *RateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	key = s.prefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("redis: increment %s: %w", key, err)
	}

	remaining := ttl.Val()
	if remaining < 0 {
		remaining = window
	}
	return incr.Val(), remaining, nil
}
