package redis

import "time"

// Config describes how to reach the Redis server holding OAuth login state
// and rate limit counters.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	KeyPrefix      string        `env:"REDIS_STATE_KEY_PREFIX" envDefault:"orggate:oauth_state:"`

	RateLimitKeyPrefix string `env:"REDIS_RATELIMIT_KEY_PREFIX" envDefault:"orggate:ratelimit:"`
}
