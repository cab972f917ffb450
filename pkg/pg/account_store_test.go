package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	m, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, m.ExpectationsWereMet())
		m.Close()
	})
	return m
}

var (
	accountColumns  = []string{"id", "email", "password_hash", "level", "created_at", "updated_at"}
	identityColumns = []string{"account_id", "provider", "external_id", "display_name", "username", "profile_url", "avatar_url", "access_token", "cache", "linked_at"}
)

func TestAccountStore_FindAccountsByEmails(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no emails", func(t *testing.T) {
		t.Parallel()

		store := NewAccountStore(newMock(t))
		got, err := store.FindAccountsByEmails(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("accounts with identities", func(t *testing.T) {
		t.Parallel()

		m := newMock(t)
		id := uuid.New()
		emails := []string{"dev@example.com"}

		m.ExpectQuery(selectAccountsByEmails).WithArgs(emails).WillReturnRows(
			pgxmock.NewRows(accountColumns).AddRow(id, "dev@example.com", []byte("hash"), "standard", now, now),
		)
		m.ExpectQuery(selectIdentities).WithArgs([]string{id.String()}).WillReturnRows(
			pgxmock.NewRows(identityColumns).AddRow(id, "github", "42", "Dev", "dev", "https://github.com/dev", "", "tok", map[string]any{"login": "dev"}, now),
		)

		got, err := NewAccountStore(m).FindAccountsByEmails(context.Background(), emails)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, id, got[0].ID)
		assert.Equal(t, orgauth.LevelStandard, got[0].Level)
		require.Len(t, got[0].Identities, 1)
		assert.Equal(t, "42", got[0].Identities[0].ExternalID)
		assert.Equal(t, "dev", got[0].Identities[0].Cache["login"])
	})

	t.Run("no match skips identity query", func(t *testing.T) {
		t.Parallel()

		m := newMock(t)
		m.ExpectQuery(selectAccountsByEmails).WithArgs([]string{"x@example.com"}).WillReturnRows(pgxmock.NewRows(accountColumns))

		got, err := NewAccountStore(m).FindAccountsByEmails(context.Background(), []string{"x@example.com"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown level", func(t *testing.T) {
		t.Parallel()

		m := newMock(t)
		m.ExpectQuery(selectAccountsByEmails).WithArgs([]string{"x@example.com"}).WillReturnRows(
			pgxmock.NewRows(accountColumns).AddRow(uuid.New(), "x@example.com", []byte("h"), "root", now, now),
		)

		_, err := NewAccountStore(m).FindAccountsByEmails(context.Background(), []string{"x@example.com"})
		assert.ErrorIs(t, err, orgauth.ErrInvalidLevel)
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()

		m := newMock(t)
		m.ExpectQuery(selectAccountsByEmails).WithArgs([]string{"x@example.com"}).WillReturnError(errors.New("conn reset"))

		_, err := NewAccountStore(m).FindAccountsByEmails(context.Background(), []string{"x@example.com"})
		assert.Error(t, err)
	})
}

func TestAccountStore_SaveAccount(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	newAccount := func() *orgauth.Account {
		return &orgauth.Account{
			ID:           uuid.New(),
			Email:        "dev@example.com",
			PasswordHash: []byte("hash"),
			Level:        orgauth.LevelAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
			Identities: []orgauth.LinkedIdentity{{
				Provider:    "github",
				ExternalID:  "42",
				Username:    "dev",
				AccessToken: "tok",
				LinkedAt:    now,
			}},
		}
	}

	t.Run("upserts account and identities", func(t *testing.T) {
		t.Parallel()

		m := newMock(t)
		a := newAccount()
		i := a.Identities[0]

		m.ExpectBegin()
		m.ExpectExec(upsertAccount).
			WithArgs(a.ID, a.Email, a.PasswordHash, "admin", a.CreatedAt, a.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		batch := m.ExpectBatch()
		batch.ExpectExec(insertIdentity).
			WithArgs(a.ID, i.Provider, i.ExternalID, i.DisplayName, i.Username, i.ProfileURL, i.AvatarURL, i.AccessToken, i.Cache, i.LinkedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		m.ExpectCommit()

		require.NoError(t, NewAccountStore(m).SaveAccount(context.Background(), a))
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		m := newMock(t)
		a := newAccount()

		m.ExpectBegin()
		m.ExpectExec(upsertAccount).
			WithArgs(a.ID, a.Email, a.PasswordHash, "admin", a.CreatedAt, a.UpdatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		m.ExpectRollback()

		err := NewAccountStore(m).SaveAccount(context.Background(), a)
		assert.ErrorIs(t, err, orgauth.ErrDuplicateEmail)
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()

		a := newAccount()
		a.Level = orgauth.Level(9)
		err := NewAccountStore(newMock(t)).SaveAccount(context.Background(), a)
		assert.ErrorIs(t, err, orgauth.ErrInvalidLevel)
	})
}
