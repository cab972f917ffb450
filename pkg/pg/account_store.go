package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

// DB is the subset of *pgxpool.Pool the account store uses.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Ensure AccountStore implements orgauth.AccountStore.
var _ orgauth.AccountStore = (*AccountStore)(nil)

// AccountStore keeps accounts in PostgreSQL. Linked identities live in their own
// table and are only ever inserted; an existing link is never rewritten.
type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

const selectAccountsByEmails = `
SELECT id, email, password_hash, level, created_at, updated_at
FROM accounts
WHERE email = ANY($1)`

const selectIdentities = `
SELECT account_id, provider, external_id, display_name, username, profile_url,
       avatar_url, access_token, cache, linked_at
FROM account_identities
WHERE account_id = ANY($1::uuid[])
ORDER BY linked_at, provider, external_id`

func (s *AccountStore) FindAccountsByEmails(ctx context.Context, emails []string) ([]*orgauth.Account, error) {
	if len(emails) == 0 {
		return []*orgauth.Account{}, nil
	}

	rows, err := s.db.Query(ctx, selectAccountsByEmails, emails)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	accounts, err := pgx.CollectRows(rows, scanAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}
	if len(accounts) == 0 {
		return accounts, nil
	}

	byID := make(map[uuid.UUID]*orgauth.Account, len(accounts))
	ids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
		ids = append(ids, a.ID.String())
	}

	rows, err = s.db.Query(ctx, selectIdentities, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query identities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			accountID uuid.UUID
			identity  orgauth.LinkedIdentity
		)
		if err := rows.Scan(
			&accountID, &identity.Provider, &identity.ExternalID, &identity.DisplayName,
			&identity.Username, &identity.ProfileURL, &identity.AvatarURL,
			&identity.AccessToken, &identity.Cache, &identity.LinkedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan identity: %w", err)
		}
		if a, ok := byID[accountID]; ok {
			a.Identities = append(a.Identities, identity)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read identities: %w", err)
	}

	return accounts, nil
}

const upsertAccount = `
INSERT INTO accounts (id, email, password_hash, level, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    email = EXCLUDED.email,
    level = EXCLUDED.level,
    updated_at = EXCLUDED.updated_at`

const insertIdentity = `
INSERT INTO account_identities (
    account_id, provider, external_id, display_name, username, profile_url,
    avatar_url, access_token, cache, linked_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (account_id, provider, external_id) DO NOTHING`

func (s *AccountStore) SaveAccount(ctx context.Context, account *orgauth.Account) (err error) {
	level, err := account.Level.MarshalText()
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, upsertAccount,
		account.ID, account.Email, account.PasswordHash, string(level),
		account.CreatedAt, account.UpdatedAt,
	); err != nil {
		if IsDuplicateKeyError(err) {
			return orgauth.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to save account: %w", err)
	}

	if len(account.Identities) > 0 {
		batch := &pgx.Batch{}
		for _, identity := range account.Identities {
			batch.Queue(insertIdentity,
				account.ID, identity.Provider, identity.ExternalID, identity.DisplayName,
				identity.Username, identity.ProfileURL, identity.AvatarURL,
				identity.AccessToken, identity.Cache, identity.LinkedAt,
			)
		}
		if err = tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save identities: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit account: %w", err)
	}
	return nil
}

func scanAccount(row pgx.CollectableRow) (*orgauth.Account, error) {
	var (
		a     orgauth.Account
		level string
	)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &level, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if err := a.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Join(fmt.Errorf("account %s", a.ID), err)
	}
	return &a, nil
}
