package mongo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/orggate/pkg/audit"
	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

func TestAccountDocument(t *testing.T) {
	t.Parallel()

	t.Run("keeps identities and level", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		account := &orgauth.Account{
			ID:    uuid.New(),
			Email: "octo@example.com",
			Level: orgauth.LevelAdmin,
			Identities: []orgauth.LinkedIdentity{{
				Provider:   orgauth.ProviderGitHub,
				ExternalID: "583231",
				Username:   "octocat",
				LinkedAt:   now,
			}},
			CreatedAt: now,
			UpdatedAt: now,
		}

		doc, err := newAccountDocument(account)
		require.NoError(t, err)
		assert.Equal(t, account.ID.String(), doc.ID)
		assert.Equal(t, "admin", doc.Level)

		back, err := doc.toAccount()
		require.NoError(t, err)
		assert.Equal(t, account, back)
	})

	t.Run("rejects invalid level on write", func(t *testing.T) {
		t.Parallel()

		_, err := newAccountDocument(&orgauth.Account{ID: uuid.New(), Level: orgauth.Level(9)})
		assert.ErrorIs(t, err, orgauth.ErrInvalidLevel)
	})

	t.Run("rejects corrupted documents", func(t *testing.T) {
		t.Parallel()

		_, err := accountDocument{ID: "not-a-uuid", Level: "none"}.toAccount()
		assert.Error(t, err)

		_, err = accountDocument{ID: uuid.NewString(), Level: "owner"}.toAccount()
		assert.ErrorIs(t, err, orgauth.ErrInvalidLevel)
	})
}

func TestAuditDocument(t *testing.T) {
	t.Parallel()

	e := audit.Event{
		ID:        uuid.New(),
		Action:    audit.ActionSignIn,
		Result:    audit.ResultFailure,
		Reason:    "no_verified_email",
		Provider:  orgauth.ProviderGitHub,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	doc := newAuditDocument(e)
	assert.Equal(t, e.ID.String(), doc.ID)
	assert.Equal(t, "failure", doc.Result)
	assert.Equal(t, "no_verified_email", doc.Reason)
	assert.Equal(t, e.CreatedAt, doc.CreatedAt)
}
