// Package orgauth authorizes users who signed in through an external OAuth
// provider against membership in a single organization.
//
// An attempt takes the provider access token and profile and runs two branches
// concurrently: the AccountResolver maps the profile's verified emails to exactly
// one local Account (creating it when none matches), and the Evaluator derives a
// Level from organization membership or, when both team names are configured,
// from membership in the access and admin teams. If both branches succeed and the
// level grants access, the Synchronizer links the provider identity and stores the
// level on the account.
//
// The first failing branch fails the attempt immediately; the sibling branch is
// not awaited and its result is discarded.
//
// Basic usage:
//
//	cfg := orgauth.Config{Organization: "acme", AccessTeamName: "staff", AdminTeamName: "ops"}
//	teams := orgauth.NewTeamCache(cfg)
//	authz := orgauth.New(cfg, store, github.NewClientFactory(), teams, orgauth.WithLogger(log))
//
//	account, err := authz.Verify(ctx, token.AccessToken, profile)
//	switch {
//	case errors.Is(err, orgauth.ErrAuthorizationDenied):
//		// signed in, but not allowed
//	case errors.Is(err, orgauth.ErrAmbiguousAccount):
//		// verified emails belong to different accounts
//	}
//
// The TeamCache is safe for concurrent use and should be shared by every
// Authorizer built from the same Config.
package orgauth
