package orgauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/orggate/pkg/logger"
)

// AccountResolver maps a provider identity to exactly one local account,
// creating it when no verified email matches.
type AccountResolver struct {
	store      AccountStore
	logger     *slog.Logger
	now        func() time.Time
	bcryptCost int
}

// NewAccountResolver creates a resolver backed by store.
func NewAccountResolver(store AccountStore, opts ...Option) *AccountResolver {
	o := newOptions(opts)
	return &AccountResolver{
		store:      store,
		logger:     o.logger,
		now:        o.now,
		bcryptCost: o.bcryptCost,
	}
}

// Resolve returns the single account owning one of the profile's verified emails.
// Emails missing from the profile are fetched through client.
func (r *AccountResolver) Resolve(ctx context.Context, client APIClient, profile ExternalProfile) (*Account, error) {
	emails := profile.Emails
	if len(emails) == 0 {
		fetched, err := client.Emails(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch provider emails: %w", err)
		}
		emails = fetched
	}

	verified, err := NormalizeEmails(emails)
	if err != nil {
		r.logger.WarnContext(ctx, "provider profile has no verified email",
			logger.Provider(profile.Provider),
			logger.ExternalID(profile.ID),
		)
		return nil, err
	}

	accounts, err := r.store.FindAccountsByEmails(ctx, verified.Candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to look up accounts by email: %w", err)
	}
	accounts = distinctAccounts(accounts)

	switch len(accounts) {
	case 0:
		return r.create(ctx, verified.Primary)
	case 1:
		return accounts[0], nil
	default:
		ambiguous := &AmbiguousAccountError{}
		for _, a := range accounts {
			ambiguous.Emails = append(ambiguous.Emails, a.Email)
			ambiguous.AccountIDs = append(ambiguous.AccountIDs, a.ID)
		}
		r.logger.WarnContext(ctx, "verified emails match several accounts",
			logger.Provider(profile.Provider),
			logger.ExternalID(profile.ID),
			slog.Any("emails", ambiguous.Emails),
		)
		return nil, ambiguous
	}
}

func (r *AccountResolver) create(ctx context.Context, email string) (*Account, error) {
	hash, err := placeholderCredential(r.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := r.now()
	account := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Level:        LevelUnauthorized,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.store.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	r.logger.InfoContext(ctx, "account created", logger.AccountID(account.ID))
	return account, nil
}

// placeholderCredential hashes a random secret nobody knows, so the account
// has a credential that can never be used to log in.
func placeholderCredential(cost int) ([]byte, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate placeholder credential: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(base64.RawURLEncoding.EncodeToString(secret)), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder credential: %w", err)
	}
	return hash, nil
}

func distinctAccounts(accounts []*Account) []*Account {
	seen := make(map[uuid.UUID]struct{}, len(accounts))
	out := accounts[:0:0]
	for _, a := range accounts {
		if a == nil {
			continue
		}
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}
