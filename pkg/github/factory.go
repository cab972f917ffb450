package github

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

// Config holds the API endpoint settings shared by every per-user client.
type Config struct {
	BaseURL   string `env:"GITHUB_API_URL" envDefault:"https://api.github.com/"`
	UserAgent string `env:"GITHUB_USER_AGENT" envDefault:"orggate"`
}

// ClientFactory builds token-authenticated clients, one per authorization attempt.
type ClientFactory struct {
	transport *http.Client
	opts      []Option
}

// Ensure ClientFactory implements orgauth.ClientFactory.
var _ orgauth.ClientFactory = (*ClientFactory)(nil)

// NewClientFactory creates a factory. transport is the base HTTP client the
// OAuth2 transport wraps; nil uses http.DefaultClient.
func NewClientFactory(cfg Config, transport *http.Client, opts ...Option) *ClientFactory {
	base := []Option{WithUserAgent(cfg.UserAgent)}
	if cfg.BaseURL != "" {
		base = append(base, WithBaseURL(cfg.BaseURL))
	}
	return &ClientFactory{
		transport: transport,
		opts:      append(base, opts...),
	}
}

// NewClient returns a client acting as the profile's user.
func (f *ClientFactory) NewClient(accessToken string, profile orgauth.ExternalProfile) orgauth.APIClient {
	ctx := context.Background()
	if f.transport != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.transport)
	}
	opts := append([]Option{WithUsername(profile.Username)}, f.opts...)
	return NewTokenClient(ctx, accessToken, opts...)
}
