package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateStorage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("state is redeemable once", func(t *testing.T) {
		t.Parallel()

		s := NewMemoryStateStorage()
		require.NoError(t, s.StoreState(ctx, "abc", time.Now().Add(time.Minute)))
		require.NoError(t, s.ConsumeState(ctx, "abc"))
		assert.ErrorIs(t, s.ConsumeState(ctx, "abc"), ErrStateNotFound)
	})

	t.Run("expired state is rejected", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		s := NewMemoryStateStorage()
		s.now = func() time.Time { return now }
		require.NoError(t, s.StoreState(ctx, "abc", now.Add(time.Minute)))

		s.now = func() time.Time { return now.Add(2 * time.Minute) }
		assert.ErrorIs(t, s.ConsumeState(ctx, "abc"), ErrStateNotFound)
	})

	t.Run("unknown state", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, NewMemoryStateStorage().ConsumeState(ctx, "nope"), ErrStateNotFound)
	})
}
