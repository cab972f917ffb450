package auth

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"

	"github.com/dmitrymomot/orggate/pkg/github"
	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

// GitHubOAuthConfig holds the OAuth application settings.
// read:org is needed for organization and team membership checks.
type GitHubOAuthConfig struct {
	ClientID     string        `env:"GITHUB_OAUTH_CLIENT_ID,required"`
	ClientSecret string        `env:"GITHUB_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string        `env:"GITHUB_OAUTH_REDIRECT_URL,required"`
	Scopes       []string      `env:"GITHUB_OAUTH_SCOPES" envSeparator:"," envDefault:"read:org,user:email"`
	StateTTL     time.Duration `env:"GITHUB_OAUTH_STATE_TTL" envDefault:"10m"`
}

type githubAdapter struct {
	conf       *oauth2.Config
	httpClient *http.Client
	apiOpts    []github.Option
}

// GitHubAdapterOption configures the GitHub adapter.
type GitHubAdapterOption func(*githubAdapter)

// WithGitHubEndpoint overrides the OAuth endpoints, e.g. for GitHub Enterprise.
func WithGitHubEndpoint(endpoint oauth2.Endpoint) GitHubAdapterOption {
	return func(a *githubAdapter) {
		a.conf.Endpoint = endpoint
	}
}

// WithGitHubHTTPClient sets the client used for the token exchange and profile fetch.
func WithGitHubHTTPClient(c *http.Client) GitHubAdapterOption {
	return func(a *githubAdapter) {
		if c != nil {
			a.httpClient = c
		}
	}
}

// WithGitHubAPIOptions passes options to the API client fetching the profile.
func WithGitHubAPIOptions(opts ...github.Option) GitHubAdapterOption {
	return func(a *githubAdapter) {
		a.apiOpts = append(a.apiOpts, opts...)
	}
}

// NewGitHubAdapter creates the GitHub provider adapter.
func NewGitHubAdapter(cfg GitHubOAuthConfig, opts ...GitHubAdapterOption) ProviderAdapter {
	a := &githubAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     oauthgithub.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *githubAdapter) ProviderID() string {
	return orgauth.ProviderGitHub
}

func (a *githubAdapter) AuthURL(state string) (string, error) {
	return a.conf.AuthCodeURL(state), nil
}

func (a *githubAdapter) ResolveProfile(ctx context.Context, code string) (string, orgauth.ExternalProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return "", orgauth.ExternalProfile{}, ErrInvalidCode
	}

	profile, err := github.NewTokenClient(ctx, tok.AccessToken, a.apiOpts...).User(ctx)
	if err != nil {
		return "", orgauth.ExternalProfile{}, err
	}
	return tok.AccessToken, profile, nil
}
