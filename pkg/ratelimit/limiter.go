package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Limiter applies Config to keys counted in a Store.
type Limiter struct {
	store Store
	cfg   Config
	now   func() time.Time
}

// LimiterOption configures Limiter.
type LimiterOption func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) LimiterOption {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLimiter creates a Limiter.
func NewLimiter(store Store, cfg Config, opts ...LimiterOption) (*Limiter, error) {
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("store is nil"))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	l := &Limiter{store: store, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Allow records a hit for key and reports whether it fits the allowance.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, ttl, err := l.store.Increment(ctx, key, l.cfg.Window)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}

	remaining := max(l.cfg.Requests-int(count), 0)
	return Result{
		Allowed:   count <= int64(l.cfg.Requests),
		Limit:     l.cfg.Requests,
		Remaining: remaining,
		ResetAt:   l.now().Add(ttl),
	}, nil
}
