package orgauth

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/dmitrymomot/orggate/pkg/logger"
)

// Synchronizer writes the evaluated level and the provider identity link onto an account.
type Synchronizer struct {
	store  AccountStore
	logger *slog.Logger
	now    func() time.Time
}

func NewSynchronizer(store AccountStore, opts ...Option) *Synchronizer {
	o := newOptions(opts)
	return &Synchronizer{store: store, logger: o.logger, now: o.now}
}

// Sync sets the account level and links the provider identity if it is not
// linked yet, then persists the account. An existing link is left untouched.
// Accounts evaluated as LevelUnauthorized are returned as is without writes.
func (s *Synchronizer) Sync(ctx context.Context, account *Account, level Level, profile ExternalProfile, accessToken string) (*Account, error) {
	if account == nil || !level.Authorized() {
		return account, nil
	}

	now := s.now()
	account.Level = level
	account.UpdatedAt = now

	linked := false
	if account.Identity(profile.Provider, profile.ID) == nil {
		account.Identities = append(account.Identities, LinkedIdentity{
			Provider:    profile.Provider,
			ExternalID:  profile.ID,
			DisplayName: profile.DisplayName,
			Username:    profile.Username,
			ProfileURL:  profile.ProfileURL,
			AvatarURL:   profile.AvatarURL,
			AccessToken: accessToken,
			Cache:       maps.Clone(profile.Raw),
			LinkedAt:    now,
		})
		linked = true
	}

	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.logger.DebugContext(ctx, "account synchronized",
		logger.AccountID(account.ID),
		logger.Level(level),
		slog.Bool("identity_linked", linked),
	)
	return account, nil
}
