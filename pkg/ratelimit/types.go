package ratelimit

import (
	"context"
	"time"
)

// Config defines the allowance per key.
type Config struct {
	Requests int           `env:"RATELIMIT_REQUESTS" envDefault:"30"`
	Window   time.Duration `env:"RATELIMIT_WINDOW" envDefault:"1m"`
}

func (c Config) validate() error {
	if c.Requests <= 0 || c.Window <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Result reports a rate limit decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is how long a rejected caller should wait. Zero when allowed.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed || !r.ResetAt.After(now) {
		return 0
	}
	return r.ResetAt.Sub(now)
}

// Store counts hits per key in windows of fixed length.
type Store interface {
	// Increment adds one hit to key and returns the hit count of the current
	// window together with the time left until it ends. A new window starts
	// when the previous one has expired.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}
