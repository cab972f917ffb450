// Package auth implements the OAuth authorization code flow in front of
// organization-gated authorization.
//
// GetAuthURL stores a one-time state token and returns the provider consent URL.
// Auth redeems the state, exchanges the code through a ProviderAdapter and hands
// the access token and profile to a Verifier, normally *orgauth.Authorizer:
//
//	svc := auth.NewOAuthService(
//		redis.NewStateStorage(client, redisCfg),
//		auth.NewGitHubAdapter(githubCfg),
//		authorizer,
//		auth.WithStateTTL(githubCfg.StateTTL),
//		auth.WithLogger(log),
//	)
//
// Unknown, expired or replayed state yields ErrInvalidState; a rejected code
// yields ErrInvalidCode. Verifier errors are returned unchanged so callers can
// match orgauth sentinels.
package auth
