package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/orggate/pkg/logger"
	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com/"

const (
	teamsPerPage = 100
	maxTeamPages = 50
)

// Ensure Client implements orgauth.APIClient.
var _ orgauth.APIClient = (*Client)(nil)

// Client calls the GitHub REST API on behalf of a single user.
type Client struct {
	http      *http.Client
	baseURL   *url.URL
	username  string
	userAgent string
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a GitHub Enterprise or test server.
// Invalid URLs are ignored.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			c.baseURL = u
		}
	}
}

// WithUsername sets the login used for team membership checks.
func WithUsername(username string) Option {
	return func(c *Client) {
		c.username = username
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client over httpClient, which must add the caller's credentials.
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:      httpClient,
		baseURL:   base,
		userAgent: "orggate",
		logger:    logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewTokenClient creates a client authenticated with a static access token.
func NewTokenClient(ctx context.Context, accessToken string, opts ...Option) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	return NewClient(oauth2.NewClient(ctx, src), opts...)
}

// User fetches the authenticated user's profile.
func (c *Client) User(ctx context.Context) (orgauth.ExternalProfile, error) {
	var (
		user userResponse
		raw  map[string]any
	)
	body, err := c.getRaw(ctx, "user", nil)
	if err != nil {
		return orgauth.ExternalProfile{}, err
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return orgauth.ExternalProfile{}, fmt.Errorf("github: failed to decode user: %w", err)
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return orgauth.ExternalProfile{}, fmt.Errorf("github: failed to decode user: %w", err)
	}

	return orgauth.ExternalProfile{
		Provider:    orgauth.ProviderGitHub,
		ID:          strconv.FormatInt(user.ID, 10),
		DisplayName: user.Name,
		Username:    user.Login,
		ProfileURL:  user.HTMLURL,
		AvatarURL:   user.AvatarURL,
		Raw:         raw,
	}, nil
}

// Emails lists the authenticated user's email addresses. Requires the user:email scope.
func (c *Client) Emails(ctx context.Context) ([]orgauth.ProfileEmail, error) {
	var resp []emailResponse
	if _, err := c.get(ctx, "user/emails", nil, &resp); err != nil {
		return nil, err
	}

	emails := make([]orgauth.ProfileEmail, 0, len(resp))
	for _, e := range resp {
		emails = append(emails, orgauth.ProfileEmail{
			Address:  e.Email,
			Verified: e.Verified,
			Primary:  e.Primary,
		})
	}
	return emails, nil
}

// BelongsToOrganization reports the user's active membership in org.
// Requires the read:org scope. A missing or pending membership is not an error.
func (c *Client) BelongsToOrganization(ctx context.Context, org string) (orgauth.Membership, error) {
	var resp orgMembershipResponse
	_, err := c.get(ctx, "user/memberships/orgs/"+url.PathEscape(org), nil, &resp)
	switch {
	case isNoAccess(err):
		return orgauth.Membership{}, nil
	case err != nil:
		return orgauth.Membership{}, err
	}

	if resp.State != membershipActive {
		return orgauth.Membership{}, nil
	}
	return orgauth.Membership{Member: true, Admin: resp.Role == roleAdmin}, nil
}

// FindTeamWithName pages through the organization's teams looking for one whose
// name matches case-insensitively or whose slug equals name. A 403 or 404 on
// the listing means this caller cannot see the teams and yields
// orgauth.ErrTeamsNotVisible; ErrTeamNotFound only follows a complete listing.
func (c *Client) FindTeamWithName(ctx context.Context, org, name string) (string, error) {
	path := "orgs/" + url.PathEscape(org) + "/teams"
	for page := 1; page <= maxTeamPages; page++ {
		query := url.Values{
			"per_page": {strconv.Itoa(teamsPerPage)},
			"page":     {strconv.Itoa(page)},
		}

		var teams []teamResponse
		header, err := c.get(ctx, path, query, &teams)
		switch {
		case isNoAccess(err):
			return "", fmt.Errorf("%w: %w", orgauth.ErrTeamsNotVisible, err)
		case err != nil:
			return "", err
		}

		for _, t := range teams {
			if strings.EqualFold(t.Name, name) || t.Slug == name {
				return strconv.FormatInt(t.ID, 10), nil
			}
		}

		if !hasNextPage(header) && len(teams) < teamsPerPage {
			break
		}
		if len(teams) == 0 {
			break
		}
	}
	return "", orgauth.ErrTeamNotFound
}

// BelongsToTeam reports whether the user is an active member of the team.
func (c *Client) BelongsToTeam(ctx context.Context, teamID string) (bool, error) {
	if c.username == "" {
		return false, errors.New("github: username is required for team membership checks")
	}

	var resp teamMembershipResponse
	path := "teams/" + url.PathEscape(teamID) + "/memberships/" + url.PathEscape(c.username)
	_, err := c.get(ctx, path, nil, &resp)
	switch {
	case isNoAccess(err):
		return false, nil
	case err != nil:
		return false, err
	}
	return resp.State == membershipActive, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (http.Header, error) {
	resp, err := c.do(ctx, path, query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("github: failed to decode %s: %w", path, err)
	}
	return resp.Header, nil
}

func (c *Client) getRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	resp, err := c.do(ctx, path, query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github: failed to read %s: %w", path, err)
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("github: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: GET %s: %w", path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Method:     http.MethodGet,
		URL:        u.Path,
	}
	var body errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}
	if resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
		apiErr.StatusCode = http.StatusTooManyRequests
	}

	c.logger.DebugContext(ctx, "github api request failed",
		slog.String("path", u.Path),
		slog.Int("status", resp.StatusCode),
		logger.Component("github"),
	)
	return nil, apiErr
}

// isNoAccess reports whether err means the resource is hidden from the user,
// which GitHub signals with 404 or, for org memberships, 403.
func isNoAccess(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusForbidden
}

func hasNextPage(h http.Header) bool {
	for _, link := range h.Values("Link") {
		for part := range strings.SplitSeq(link, ",") {
			if strings.Contains(part, `rel="next"`) {
				return true
			}
		}
	}
	return false
}
