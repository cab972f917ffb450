// Package github is a small client for the parts of the GitHub REST API that
// organization-gated sign in needs: the user's profile and emails, organization
// membership, team lookup by name, and team membership.
//
// Clients are created per user with an OAuth access token:
//
//	factory := github.NewClientFactory(github.Config{BaseURL: github.DefaultBaseURL}, nil)
//	client := factory.NewClient(token.AccessToken, profile)
//	membership, err := client.BelongsToOrganization(ctx, "acme")
//
// Hidden or missing memberships (404, or 403 outside of rate limiting) are
// reported as "not a member" rather than as errors. Any other non-2xx response
// is returned as *APIError.
package github
