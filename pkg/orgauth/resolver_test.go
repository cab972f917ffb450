package orgauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testOptions() []Option {
	return []Option{
		WithBcryptCost(bcrypt.MinCost),
		WithClock(func() time.Time { return fixedNow }),
	}
}

func githubProfile(emails ...ProfileEmail) ExternalProfile {
	return ExternalProfile{
		Provider:    ProviderGitHub,
		ID:          "583231",
		DisplayName: "The Octocat",
		Username:    "octocat",
		ProfileURL:  "https://github.com/octocat",
		Emails:      emails,
		Raw:         map[string]any{"login": "octocat"},
	}
}

func TestAccountResolver_Resolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns the single matching account", func(t *testing.T) {
		t.Parallel()

		existing := &Account{ID: uuid.New(), Email: "octo@example.com"}
		store := &MockAccountStore{}
		store.On("FindAccountsByEmails", mock.Anything, []string{"octo@example.com", "cat@example.com"}).
			Return([]*Account{existing}, nil).Once()

		resolver := NewAccountResolver(store, testOptions()...)
		got, err := resolver.Resolve(ctx, &MockAPIClient{}, githubProfile(
			ProfileEmail{Address: "Octo@Example.com", Verified: true},
			ProfileEmail{Address: "cat@example.com", Verified: true, Primary: true},
		))

		require.NoError(t, err)
		assert.Same(t, existing, got)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "SaveAccount", mock.Anything, mock.Anything)
	})

	t.Run("creates account under the primary address", func(t *testing.T) {
		t.Parallel()

		store := &MockAccountStore{}
		store.On("FindAccountsByEmails", mock.Anything, mock.Anything).Return([]*Account{}, nil).Once()
		store.On("SaveAccount", mock.Anything, mock.MatchedBy(func(a *Account) bool {
			return a.Email == "cat@example.com"
		})).Return(nil).Once()

		resolver := NewAccountResolver(store, testOptions()...)
		got, err := resolver.Resolve(ctx, &MockAPIClient{}, githubProfile(
			ProfileEmail{Address: "octo@example.com", Verified: true},
			ProfileEmail{Address: "cat@example.com", Verified: true, Primary: true},
		))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, got.ID)
		assert.Equal(t, "cat@example.com", got.Email)
		assert.Equal(t, LevelUnauthorized, got.Level)
		assert.Empty(t, got.Identities)
		assert.Equal(t, fixedNow, got.CreatedAt)
		require.NotEmpty(t, got.PasswordHash)
		_, err = bcrypt.Cost(got.PasswordHash)
		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("fetches emails when profile has none", func(t *testing.T) {
		t.Parallel()

		existing := &Account{ID: uuid.New(), Email: "octo@example.com"}
		client := &MockAPIClient{}
		client.On("Emails", mock.Anything).Return([]ProfileEmail{
			{Address: "octo@example.com", Verified: true, Primary: true},
		}, nil).Once()
		store := &MockAccountStore{}
		store.On("FindAccountsByEmails", mock.Anything, []string{"octo@example.com"}).
			Return([]*Account{existing}, nil).Once()

		got, err := NewAccountResolver(store, testOptions()...).Resolve(ctx, client, githubProfile())

		require.NoError(t, err)
		assert.Same(t, existing, got)
		client.AssertExpectations(t)
	})

	t.Run("email fetch failure", func(t *testing.T) {
		t.Parallel()

		apiErr := errors.New("github unavailable")
		client := &MockAPIClient{}
		client.On("Emails", mock.Anything).Return(nil, apiErr).Once()
		store := &MockAccountStore{}

		_, err := NewAccountResolver(store, testOptions()...).Resolve(ctx, client, githubProfile())

		assert.ErrorIs(t, err, apiErr)
		store.AssertNotCalled(t, "FindAccountsByEmails", mock.Anything, mock.Anything)
	})

	t.Run("no verified email", func(t *testing.T) {
		t.Parallel()

		store := &MockAccountStore{}
		_, err := NewAccountResolver(store, testOptions()...).Resolve(ctx, &MockAPIClient{}, githubProfile(
			ProfileEmail{Address: "octo@example.com", Primary: true},
		))

		assert.ErrorIs(t, err, ErrNoVerifiedEmail)
		store.AssertNotCalled(t, "FindAccountsByEmails", mock.Anything, mock.Anything)
	})

	t.Run("ambiguous when emails match different accounts", func(t *testing.T) {
		t.Parallel()

		first := &Account{ID: uuid.New(), Email: "octo@example.com"}
		second := &Account{ID: uuid.New(), Email: "cat@example.com"}
		store := &MockAccountStore{}
		store.On("FindAccountsByEmails", mock.Anything, mock.Anything).
			Return([]*Account{first, second, first}, nil).Once()

		_, err := NewAccountResolver(store, testOptions()...).Resolve(ctx, &MockAPIClient{}, githubProfile(
			ProfileEmail{Address: "octo@example.com", Verified: true},
			ProfileEmail{Address: "cat@example.com", Verified: true},
		))

		require.ErrorIs(t, err, ErrAmbiguousAccount)
		var ambiguous *AmbiguousAccountError
		require.ErrorAs(t, err, &ambiguous)
		assert.ElementsMatch(t, []string{"octo@example.com", "cat@example.com"}, ambiguous.Emails)
		assert.Len(t, ambiguous.AccountIDs, 2)
		store.AssertNotCalled(t, "SaveAccount", mock.Anything, mock.Anything)
	})

	t.Run("duplicate rows of one account are not ambiguous", func(t *testing.T) {
		t.Parallel()

		existing := &Account{ID: uuid.New(), Email: "octo@example.com"}
		store := &MockAccountStore{}
		store.On("FindAccountsByEmails", mock.Anything, mock.Anything).
			Return([]*Account{existing, existing}, nil).Once()

		got, err := NewAccountResolver(store, testOptions()...).Resolve(ctx, &MockAPIClient{}, githubProfile(
			ProfileEmail{Address: "octo@example.com", Verified: true},
		))

		require.NoError(t, err)
		assert.Same(t, existing, got)
	})

	t.Run("store failures propagate", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("connection reset")
		store := &MockAccountStore{}
		store.On("FindAccountsByEmails", mock.Anything, mock.Anything).Return([]*Account{}, nil).Once()
		store.On("SaveAccount", mock.Anything, mock.Anything).Return(dbErr).Once()

		_, err := NewAccountResolver(store, testOptions()...).Resolve(ctx, &MockAPIClient{}, githubProfile(
			ProfileEmail{Address: "octo@example.com", Verified: true},
		))

		assert.ErrorIs(t, err, dbErr)
		assert.True(t, IsTransportError(err))
	})
}
