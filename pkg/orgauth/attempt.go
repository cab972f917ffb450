package orgauth

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/orggate/pkg/logger"
	"github.com/dmitrymomot/orggate/pkg/statemachine"
)

// AttemptState is a stage of a single authorization attempt.
type AttemptState string

const (
	StateStarted       AttemptState = "started"
	StateResolvingBoth AttemptState = "resolving"
	StateMerged        AttemptState = "merged"
	StateSynchronizing AttemptState = "synchronizing"
	StateDone          AttemptState = "done"
	StateDenied        AttemptState = "denied"
	StateFailed        AttemptState = "failed"
)

type attemptEvent string

const (
	eventLaunch   attemptEvent = "launch"
	eventMerge    attemptEvent = "merge"
	eventSync     attemptEvent = "sync"
	eventDeny     attemptEvent = "deny"
	eventComplete attemptEvent = "complete"
	eventFail     attemptEvent = "fail"
)

// newAttempt builds the state machine tracking one Verify call.
// Sync is guarded on an authorized level carried as event data.
func newAttempt(log *slog.Logger) *statemachine.Machine[AttemptState, attemptEvent] {
	authorized := func(_ context.Context, _ AttemptState, _ attemptEvent, data any) bool {
		level, ok := data.(Level)
		return ok && level.Authorized()
	}

	return statemachine.MustNew(StateStarted,
		statemachine.WithTransition(StateStarted, StateResolvingBoth, eventLaunch),
		statemachine.WithTransition(StateResolvingBoth, StateMerged, eventMerge),
		statemachine.WithTransition(StateMerged, StateSynchronizing, eventSync,
			statemachine.WithGuard(authorized),
		),
		statemachine.WithTransition(StateMerged, StateDenied, eventDeny),
		statemachine.WithTransition(StateSynchronizing, StateDone, eventComplete),
		statemachine.WithTransitionFromAny(StateFailed, eventFail,
			[]AttemptState{StateStarted, StateResolvingBoth, StateMerged, StateSynchronizing},
		),
		statemachine.WithFinal[AttemptState, attemptEvent](StateDone, StateDenied, StateFailed),
		statemachine.WithHook(func(ctx context.Context, from, to AttemptState, event attemptEvent) {
			log.DebugContext(ctx, "authorization attempt transition",
				slog.String("from", string(from)),
				logger.State(string(to)),
				slog.String("event", string(event)),
			)
		}),
	)
}
