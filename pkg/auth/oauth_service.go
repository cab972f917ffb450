package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/orggate/pkg/logger"
	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

// Ensure oauthService implements OAuthAuthenticator.
var _ OAuthAuthenticator = (*oauthService)(nil)

type oauthService struct {
	storage  StateStorage
	adapter  ProviderAdapter
	verifier Verifier
	logger   *slog.Logger
	stateTTL time.Duration
	now      func() time.Time

	// Runs in its own goroutine after a successful sign in.
	afterAuth func(ctx context.Context, account *orgauth.Account) error
}

// OAuthOption configures an OAuth service during construction.
type OAuthOption func(*oauthService)

func WithLogger(l *slog.Logger) OAuthOption {
	return func(s *oauthService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStateTTL sets how long a state token stays redeemable.
func WithStateTTL(ttl time.Duration) OAuthOption {
	return func(s *oauthService) {
		if ttl > 0 {
			s.stateTTL = ttl
		}
	}
}

// WithAfterAuth registers a hook that runs asynchronously after a successful sign in.
// Hook errors are logged.
func WithAfterAuth(fn func(context.Context, *orgauth.Account) error) OAuthOption {
	return func(s *oauthService) {
		s.afterAuth = fn
	}
}

// NewOAuthService constructs the sign in flow. Defaults: state TTL 10 minutes,
// logger discards everything.
func NewOAuthService(storage StateStorage, adapter ProviderAdapter, verifier Verifier, opts ...OAuthOption) OAuthAuthenticator {
	s := &oauthService{
		storage:  storage,
		adapter:  adapter,
		verifier: verifier,
		logger:   logger.Noop(),
		stateTTL: 10 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAuthURL stores a fresh state token and returns the provider consent URL.
func (s *oauthService) GetAuthURL(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	if err := s.storage.StoreState(ctx, state, s.now().Add(s.stateTTL)); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}

	url, err := s.adapter.AuthURL(state)
	if err != nil {
		return "", fmt.Errorf("failed to build auth url: %w", err)
	}
	return url, nil
}

// Auth completes the callback: it redeems state, resolves the provider profile
// and lets the verifier decide on the account.
func (s *oauthService) Auth(ctx context.Context, code, state string) (SignIn, error) {
	if err := s.storage.ConsumeState(ctx, state); err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return SignIn{}, ErrInvalidState
		}
		return SignIn{}, fmt.Errorf("failed to validate state: %w", err)
	}

	accessToken, profile, err := s.adapter.ResolveProfile(ctx, code)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			return SignIn{}, ErrInvalidCode
		}
		return SignIn{}, fmt.Errorf("failed to resolve provider profile: %w", err)
	}
	if profile.Provider == "" {
		profile.Provider = s.adapter.ProviderID()
	}
	result := SignIn{Provider: profile.Provider, ExternalID: profile.ID}

	var (
		account   *orgauth.Account
		verifyErr error
	)
	s.verifier.VerifyCallback(ctx, accessToken, profile, func(a *orgauth.Account, err error) {
		account, verifyErr = a, err
	})
	if verifyErr != nil {
		s.logger.InfoContext(ctx, "sign in rejected",
			logger.Provider(profile.Provider),
			logger.ExternalID(profile.ID),
			logger.Error(verifyErr),
		)
		return result, verifyErr
	}

	if s.afterAuth != nil {
		go func(ctx context.Context) {
			if err := s.afterAuth(ctx, account); err != nil {
				s.logger.ErrorContext(ctx, "after auth hook failed",
					logger.AccountID(account.ID),
					logger.Error(err),
				)
			}
		}(context.WithoutCancel(ctx))
	}

	result.Account = account
	return result, nil
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
