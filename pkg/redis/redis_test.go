package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/orggate/pkg/auth"
	"github.com/dmitrymomot/orggate/pkg/ratelimit"
	"github.com/dmitrymomot/orggate/pkg/redis"
)

func setup(t *testing.T) (*miniredis.Miniredis, redis.Config, *goredis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := redis.Config{
		ConnectionURL:      "redis://" + mr.Addr() + "/0",
		RetryAttempts:      1,
		ConnectTimeout:     time.Second,
		KeyPrefix:          "test:state:",
		RateLimitKeyPrefix: "test:rl:",
	}
	client, err := redis.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, cfg, client
}

func TestConnect(t *testing.T) {
	t.Parallel()

	_, err := redis.Connect(context.Background(), redis.Config{})
	assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)

	_, err = redis.Connect(context.Background(), redis.Config{ConnectionURL: "://bad"})
	assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = redis.Connect(context.Background(), redis.Config{
		ConnectionURL: "redis://" + addr,
		RetryAttempts: 2,
		RetryInterval: 10 * time.Millisecond,
	})
	assert.ErrorIs(t, err, redis.ErrRedisNotReady)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	mr, _, client := setup(t)
	check := redis.Healthcheck(client)
	require.NoError(t, check(context.Background()))

	mr.Close()
	assert.ErrorIs(t, check(context.Background()), redis.ErrHealthcheckFailed)
}

func TestStateStorage(t *testing.T) {
	t.Parallel()

	t.Run("consumes once", func(t *testing.T) {
		t.Parallel()

		mr, cfg, client := setup(t)
		s := redis.NewStateStorage(client, cfg)
		ctx := context.Background()

		require.NoError(t, s.StoreState(ctx, "abc", time.Now().Add(time.Minute)))
		assert.True(t, mr.Exists("test:state:abc"))
		assert.Positive(t, mr.TTL("test:state:abc"))

		require.NoError(t, s.ConsumeState(ctx, "abc"))
		assert.ErrorIs(t, s.ConsumeState(ctx, "abc"), auth.ErrStateNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()

		mr, cfg, client := setup(t)
		s := redis.NewStateStorage(client, cfg)
		ctx := context.Background()

		require.NoError(t, s.StoreState(ctx, "abc", time.Now().Add(time.Minute)))
		mr.FastForward(2 * time.Minute)
		assert.ErrorIs(t, s.ConsumeState(ctx, "abc"), auth.ErrStateNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()

		_, cfg, client := setup(t)
		s := redis.NewStateStorage(client, cfg)
		ctx := context.Background()

		assert.ErrorIs(t, s.StoreState(ctx, "", time.Now().Add(time.Minute)), redis.ErrEmptyState)
		assert.Error(t, s.StoreState(ctx, "x", time.Now().Add(-time.Second)))
		assert.ErrorIs(t, s.ConsumeState(ctx, ""), auth.ErrStateNotFound)
		assert.ErrorIs(t, s.ConsumeState(ctx, "unknown"), auth.ErrStateNotFound)
	})
}

func TestRateLimitStore(t *testing.T) {
	t.Parallel()

	mr, cfg, client := setup(t)
	store := redis.NewRateLimitStore(client, cfg)
	ctx := context.Background()

	count, ttl, err := store.Increment(ctx, "login:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.LessOrEqual(t, ttl, time.Minute)
	assert.Positive(t, ttl)

	count, _, err = store.Increment(ctx, "login:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.True(t, mr.Exists("test:rl:login:1.2.3.4"))

	mr.FastForward(time.Minute + time.Second)
	count, _, err = store.Increment(ctx, "login:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	l, err := ratelimit.NewLimiter(store, ratelimit.Config{Requests: 1, Window: time.Minute})
	require.NoError(t, err)
	res, err := l.Allow(ctx, "login:5.6.7.8")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	res, err = l.Allow(ctx, "login:5.6.7.8")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}
