package orgauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	t.Run("ordering", func(t *testing.T) {
		t.Parallel()

		assert.Less(t, LevelUnauthorized, LevelStandard)
		assert.Less(t, LevelStandard, LevelAdmin)
		assert.True(t, LevelAdmin.AtLeast(LevelStandard))
		assert.False(t, LevelStandard.AtLeast(LevelAdmin))
		assert.False(t, LevelUnauthorized.Authorized())
		assert.True(t, LevelStandard.Authorized())
		assert.False(t, Level(7).Authorized())
	})

	t.Run("text round trip", func(t *testing.T) {
		t.Parallel()

		for _, l := range []Level{LevelUnauthorized, LevelStandard, LevelAdmin} {
			text, err := l.MarshalText()
			require.NoError(t, err)

			var parsed Level
			require.NoError(t, parsed.UnmarshalText(text))
			assert.Equal(t, l, parsed)
		}
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		t.Parallel()

		_, err := ParseLevel("owner")
		assert.ErrorIs(t, err, ErrInvalidLevel)

		_, err = Level(-1).MarshalText()
		assert.ErrorIs(t, err, ErrInvalidLevel)
		assert.Equal(t, "Level(-1)", Level(-1).String())
	})

	t.Run("from organization membership", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, LevelUnauthorized, levelFromMembership(Membership{}))
		assert.Equal(t, LevelStandard, levelFromMembership(Membership{Member: true}))
		assert.Equal(t, LevelAdmin, levelFromMembership(Membership{Member: true, Admin: true}))
		assert.Equal(t, LevelUnauthorized, levelFromMembership(Membership{Admin: true}))
	})
}

func TestConfigTeamMode(t *testing.T) {
	t.Parallel()

	assert.False(t, Config{Organization: "acme"}.TeamMode())
	assert.False(t, Config{Organization: "acme", AccessTeamName: "staff"}.TeamMode())
	assert.False(t, Config{Organization: "acme", AdminTeamName: "ops"}.TeamMode())
	assert.True(t, Config{Organization: "acme", AccessTeamName: "staff", AdminTeamName: "ops"}.TeamMode())
}
