package auth

import (
	"context"
	"time"

	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

// StateStorage keeps one-time CSRF state tokens between the redirect and the callback.
type StateStorage interface {
	// StoreState saves state until expiresAt.
	StoreState(ctx context.Context, state string, expiresAt time.Time) error

	// ConsumeState removes state. Returns ErrStateNotFound if it is unknown,
	// expired or already consumed.
	ConsumeState(ctx context.Context, state string) error
}

// ProviderAdapter hides provider specifics of the authorization code flow.
type ProviderAdapter interface {
	ProviderID() string

	// AuthURL builds the provider consent URL carrying state.
	AuthURL(state string) (string, error)

	// ResolveProfile exchanges code for an access token and fetches the user's
	// profile with it. Exchange failures are reported as ErrInvalidCode.
	ResolveProfile(ctx context.Context, code string) (accessToken string, profile orgauth.ExternalProfile, err error)
}

// Verifier decides whether the provider identity may sign in.
// *orgauth.Authorizer implements it.
type Verifier interface {
	VerifyCallback(ctx context.Context, accessToken string, profile orgauth.ExternalProfile, done func(*orgauth.Account, error))
}

// SignIn is the outcome of a callback. Provider and ExternalID are set once
// the provider profile is resolved, also when verification then fails;
// Account is set on success only.
type SignIn struct {
	Account    *orgauth.Account
	Provider   string
	ExternalID string
}

// OAuthAuthenticator drives the sign in flow for one provider.
type OAuthAuthenticator interface {
	GetAuthURL(ctx context.Context) (string, error)
	Auth(ctx context.Context, code, state string) (SignIn, error)
}
