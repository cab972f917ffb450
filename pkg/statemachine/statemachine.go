package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Guard evaluates whether a transition should be allowed based on runtime conditions.
type Guard[S, E comparable] func(ctx context.Context, from S, event E, data any) bool

// Action executes side effects during state transitions. Returning an error prevents the transition.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E, data any) error

// Hook observes a completed transition. Hooks cannot veto a transition.
type Hook[S, E comparable] func(ctx context.Context, from, to S, event E)

type transition[S, E comparable] struct {
	to      S
	guards  []Guard[S, E]
	actions []Action[S, E]
}

// Machine is a thread-safe in-memory finite state machine keyed by comparable
// state and event types. Transitions are looked up as [from][event] and the
// first transition whose guards all pass wins.
type Machine[S, E comparable] struct {
	mu          sync.RWMutex
	initial     S
	current     S
	transitions map[S]map[E][]transition[S, E]
	final       map[S]struct{}
	hooks       []Hook[S, E]
	history     []S
}

// New creates a state machine with the given initial state and options.
func New[S, E comparable](initial S, opts ...Option[S, E]) (*Machine[S, E], error) {
	m := &Machine[S, E]{
		initial:     initial,
		current:     initial,
		transitions: make(map[S]map[E][]transition[S, E]),
		final:       make(map[S]struct{}),
		history:     []S{initial},
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// MustNew is like New but panics if any option fails to apply.
func MustNew[S, E comparable](initial S, opts ...Option[S, E]) *Machine[S, E] {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// History returns every state the machine has been in, oldest first.
func (m *Machine[S, E]) History() []S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]S, len(m.history))
	copy(out, m.history)
	return out
}

// IsFinal reports whether the current state was registered as final.
func (m *Machine[S, E]) IsFinal() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.final[m.current]
	return ok
}

func (m *Machine[S, E]) addTransition(from, to S, event E, guards []Guard[S, E], actions []Action[S, E]) error {
	if _, ok := m.final[from]; ok {
		return NewErrFinalState(from, event)
	}
	if _, ok := m.transitions[from]; !ok {
		m.transitions[from] = make(map[E][]transition[S, E])
	}
	// Multiple transitions allowed for same from/event to support guard-based branching
	m.transitions[from][event] = append(m.transitions[from][event], transition[S, E]{
		to:      to,
		guards:  guards,
		actions: actions,
	})
	return nil
}

// Fire triggers the event. Actions run before the state changes; any action
// failure aborts the transition. Hooks run after the state changed.
func (m *Machine[S, E]) Fire(ctx context.Context, event E, data any) error {
	m.mu.Lock()

	from := m.current
	t, err := m.lookup(ctx, from, event, data)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	for _, action := range t.actions {
		if err := action(ctx, from, t.to, event, data); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.to
	m.history = append(m.history, t.to)
	hooks := m.hooks
	m.mu.Unlock()

	for _, h := range hooks {
		h(ctx, from, t.to, event)
	}
	return nil
}

// CanFire reports whether firing the event would currently succeed, ignoring actions.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E, data any) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err := m.lookup(ctx, m.current, event, data)
	return err == nil
}

// Reset moves the machine back to its initial state and clears history.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
	m.history = []S{m.initial}
}

// Must be called with lock held.
func (m *Machine[S, E]) lookup(ctx context.Context, from S, event E, data any) (transition[S, E], error) {
	var zero transition[S, E]

	candidates := m.transitions[from][event]
	if len(candidates) == 0 {
		return zero, NewErrNoTransitionAvailable(from, event)
	}

	for _, t := range candidates {
		passed := true
		for _, guard := range t.guards {
			if !guard(ctx, from, event, data) {
				passed = false
				break
			}
		}
		if passed {
			return t, nil
		}
	}

	return zero, NewErrTransitionRejected(from, event)
}
