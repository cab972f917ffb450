package orgauth

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Ensure MemoryStore implements AccountStore.
var _ AccountStore = (*MemoryStore)(nil)

// MemoryStore is an in-process AccountStore for development and tests.
// Accounts are copied on the way in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Account
	byEmail map[string]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[uuid.UUID]*Account),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *MemoryStore) FindAccountsByEmails(ctx context.Context, emails []string) ([]*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*Account, 0, len(emails))
	seen := make(map[uuid.UUID]struct{}, len(emails))
	for _, email := range emails {
		id, ok := s.byEmail[email]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		accounts = append(accounts, cloneAccount(s.byID[id]))
	}
	return accounts, nil
}

func (s *MemoryStore) SaveAccount(ctx context.Context, account *Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, ok := s.byEmail[account.Email]; ok && owner != account.ID {
		return ErrDuplicateEmail
	}
	if prev, ok := s.byID[account.ID]; ok && prev.Email != account.Email {
		delete(s.byEmail, prev.Email)
	}

	s.byID[account.ID] = cloneAccount(account)
	s.byEmail[account.Email] = account.ID
	return nil
}

// Len reports the number of stored accounts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func cloneAccount(a *Account) *Account {
	c := *a
	c.PasswordHash = slices.Clone(a.PasswordHash)
	c.Identities = slices.Clone(a.Identities)
	for i := range c.Identities {
		c.Identities[i].Cache = maps.Clone(c.Identities[i].Cache)
	}
	return &c
}
