// Package githubauth exposes the GitHub sign in flow over HTTP.
//
// Routes, relative to the mount point (usually /auth/github):
//
//	GET /          redirect to the GitHub consent page
//	GET /callback  consume state, exchange code, authorize and return the account
//
// The callback answers with a JSON account view. Access tokens never leave
// the server.
package githubauth
