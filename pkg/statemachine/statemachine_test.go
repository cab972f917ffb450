package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/orggate/pkg/statemachine"
)

type state string

type event string

const (
	draft     state = "draft"
	inReview  state = "in_review"
	approved  state = "approved"
	rejected  state = "rejected"
	cancelled state = "cancelled"

	submit event = "submit"
	approve event = "approve"
	reject  event = "reject"
	cancel  event = "cancel"
)

func TestMachine(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("basic transitions", func(t *testing.T) {
		t.Parallel()

		m := statemachine.MustNew(draft,
			statemachine.WithTransition(draft, inReview, submit),
			statemachine.WithTransition(inReview, approved, approve),
		)
		assert.Equal(t, draft, m.Current())
		assert.True(t, m.CanFire(ctx, submit, nil))
		assert.False(t, m.CanFire(ctx, approve, nil))

		require.NoError(t, m.Fire(ctx, submit, nil))
		require.NoError(t, m.Fire(ctx, approve, nil))
		assert.Equal(t, approved, m.Current())
		assert.Equal(t, []state{draft, inReview, approved}, m.History())

		m.Reset()
		assert.Equal(t, draft, m.Current())
		assert.Equal(t, []state{draft}, m.History())
	})

	t.Run("undefined transition", func(t *testing.T) {
		t.Parallel()

		m := statemachine.MustNew(draft, statemachine.WithTransition(draft, inReview, submit))
		err := m.Fire(ctx, approve, nil)
		require.Error(t, err)
		assert.True(t, statemachine.IsNoTransitionAvailableError(err))
		assert.Equal(t, draft, m.Current())
	})

	t.Run("guards branch on data", func(t *testing.T) {
		t.Parallel()

		isApproved := func(_ context.Context, _ state, _ event, data any) bool {
			ok, _ := data.(bool)
			return ok
		}
		isRejected := func(_ context.Context, _ state, _ event, data any) bool {
			ok, _ := data.(bool)
			return !ok
		}

		newMachine := func() *statemachine.Machine[state, event] {
			return statemachine.MustNew(inReview,
				statemachine.WithTransition(inReview, approved, approve, statemachine.WithGuard(isApproved)),
				statemachine.WithTransition(inReview, rejected, approve, statemachine.WithGuard(isRejected)),
			)
		}

		m := newMachine()
		require.NoError(t, m.Fire(ctx, approve, true))
		assert.Equal(t, approved, m.Current())

		m = newMachine()
		require.NoError(t, m.Fire(ctx, approve, false))
		assert.Equal(t, rejected, m.Current())
	})

	t.Run("guard rejection", func(t *testing.T) {
		t.Parallel()

		never := func(context.Context, state, event, any) bool { return false }
		m := statemachine.MustNew(draft,
			statemachine.WithTransition(draft, inReview, submit, statemachine.WithGuard(never)),
		)

		err := m.Fire(ctx, submit, nil)
		assert.True(t, statemachine.IsTransitionRejectedError(err))
		assert.False(t, m.CanFire(ctx, submit, nil))
	})

	t.Run("action failure aborts transition", func(t *testing.T) {
		t.Parallel()

		actionErr := errors.New("side effect failed")
		m := statemachine.MustNew(draft,
			statemachine.WithTransition(draft, inReview, submit,
				statemachine.WithAction(func(context.Context, state, state, event, any) error {
					return actionErr
				}),
			),
		)

		err := m.Fire(ctx, submit, nil)
		assert.ErrorIs(t, err, actionErr)
		assert.Equal(t, draft, m.Current())
	})

	t.Run("transition from any and final states", func(t *testing.T) {
		t.Parallel()

		m := statemachine.MustNew(draft,
			statemachine.WithTransition(draft, inReview, submit),
			statemachine.WithTransitionFromAny(cancelled, cancel, []state{draft, inReview}),
			statemachine.WithFinal[state, event](cancelled),
		)

		require.NoError(t, m.Fire(ctx, submit, nil))
		require.NoError(t, m.Fire(ctx, cancel, nil))
		assert.True(t, m.IsFinal())
		assert.True(t, statemachine.IsNoTransitionAvailableError(m.Fire(ctx, cancel, nil)))
	})

	t.Run("final state cannot have outgoing transitions", func(t *testing.T) {
		t.Parallel()

		_, err := statemachine.New(draft,
			statemachine.WithFinal[state, event](cancelled),
			statemachine.WithTransition(cancelled, draft, submit),
		)
		assert.True(t, statemachine.IsFinalStateError(err))

		assert.Panics(t, func() {
			statemachine.MustNew(draft,
				statemachine.WithTransition(cancelled, draft, submit),
				statemachine.WithFinal[state, event](cancelled),
			)
		})
	})

	t.Run("hooks observe transitions", func(t *testing.T) {
		t.Parallel()

		var seen []string
		m := statemachine.MustNew(draft,
			statemachine.WithTransition(draft, inReview, submit),
			statemachine.WithHook(func(_ context.Context, from, to state, e event) {
				seen = append(seen, string(from)+">"+string(to)+":"+string(e))
			}),
		)

		require.NoError(t, m.Fire(ctx, submit, nil))
		assert.Equal(t, []string{"draft>in_review:submit"}, seen)
	})
}
