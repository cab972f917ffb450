// Package statemachine implements a small, generic finite state machine.
//
// States and events are any comparable types, typically string-based
// constants. Transitions are registered with functional options; each
// transition may carry guards (veto the transition) and actions (side effects
// that run before the state changes, aborting on error). Hooks observe every
// completed transition.
//
//	type state string
//	type event string
//
//	m := statemachine.MustNew[state, event]("started",
//		statemachine.WithTransition[state, event]("started", "running", "launch"),
//		statemachine.WithTransitionFromAny[state, event]("failed", "fail", []state{"started", "running"}),
//		statemachine.WithFinal[state, event]("failed"),
//	)
//
//	if err := m.Fire(ctx, "launch", nil); err != nil {
//		// statemachine.IsNoTransitionAvailableError / IsTransitionRejectedError
//	}
//
// Machine is safe for concurrent use. The first transition whose guards all
// pass wins, which allows guard-based branching on the same event.
package statemachine
