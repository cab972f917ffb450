package auth

import (
	"context"
	"sync"
	"time"
)

// Ensure MemoryStateStorage implements StateStorage.
var _ StateStorage = (*MemoryStateStorage)(nil)

// MemoryStateStorage keeps state tokens in process memory. It only works for a
// single instance; use the Redis storage when running more than one.
type MemoryStateStorage struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

func NewMemoryStateStorage() *MemoryStateStorage {
	return &MemoryStateStorage{
		states: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (m *MemoryStateStorage) StoreState(_ context.Context, state string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for s, exp := range m.states {
		if !exp.After(now) {
			delete(m.states, s)
		}
	}
	m.states[state] = expiresAt
	return nil
}

func (m *MemoryStateStorage) ConsumeState(_ context.Context, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.states[state]
	if !ok {
		return ErrStateNotFound
	}
	delete(m.states, state)
	if !exp.After(m.now()) {
		return ErrStateNotFound
	}
	return nil
}
