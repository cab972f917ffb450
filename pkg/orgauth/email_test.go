package orgauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmails(t *testing.T) {
	t.Parallel()

	t.Run("keeps verified addresses and prefers primary", func(t *testing.T) {
		t.Parallel()

		got, err := NormalizeEmails([]ProfileEmail{
			{Address: "old@example.com", Verified: true},
			{Address: "unverified@example.com", Primary: false},
			{Address: " Main@Example.COM ", Verified: true, Primary: true},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"old@example.com", "main@example.com"}, got.Candidates)
		assert.Equal(t, "main@example.com", got.Primary)
	})

	t.Run("falls back to first verified address", func(t *testing.T) {
		t.Parallel()

		got, err := NormalizeEmails([]ProfileEmail{
			{Address: "primary@example.com", Primary: true},
			{Address: "B@example.com", Verified: true},
			{Address: "c@example.com", Verified: true},
		})
		require.NoError(t, err)
		assert.Equal(t, "b@example.com", got.Primary)
		assert.NotContains(t, got.Candidates, "primary@example.com")
	})

	t.Run("deduplicates after normalization", func(t *testing.T) {
		t.Parallel()

		got, err := NormalizeEmails([]ProfileEmail{
			{Address: "a@example.com", Verified: true},
			{Address: "A@EXAMPLE.com", Verified: true},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a@example.com"}, got.Candidates)
	})

	t.Run("fails without verified addresses", func(t *testing.T) {
		t.Parallel()

		_, err := NormalizeEmails([]ProfileEmail{{Address: "a@example.com", Primary: true}})
		assert.ErrorIs(t, err, ErrNoVerifiedEmail)

		_, err = NormalizeEmails(nil)
		assert.ErrorIs(t, err, ErrNoVerifiedEmail)

		_, err = NormalizeEmails([]ProfileEmail{{Address: "   ", Verified: true}})
		assert.ErrorIs(t, err, ErrNoVerifiedEmail)
	})
}
