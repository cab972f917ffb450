package githubauth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/orggate/handler"
	"github.com/dmitrymomot/orggate/pkg/auth"
	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

var (
	errMissingCode  = handler.NewHTTPError(http.StatusBadRequest, "missing_code")
	errProviderDeny = handler.NewHTTPError(http.StatusBadRequest, "provider_denied")
)

// statusError attaches an HTTP status and key to an authentication failure.
// Unknown errors come from the provider or the store and map to 502.
func statusError(err error) error {
	var httpErr handler.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return err
	case errors.Is(err, auth.ErrInvalidState):
		httpErr = handler.NewHTTPError(http.StatusBadRequest, "invalid_state")
	case errors.Is(err, auth.ErrInvalidCode):
		httpErr = handler.NewHTTPError(http.StatusBadRequest, "invalid_code")
	case errors.Is(err, orgauth.ErrInvalidProfile):
		httpErr = handler.NewHTTPError(http.StatusBadRequest, "invalid_profile")
	case errors.Is(err, orgauth.ErrNoVerifiedEmail):
		httpErr = handler.NewHTTPError(http.StatusForbidden, "no_verified_email")
	case errors.Is(err, orgauth.ErrAuthorizationDenied):
		httpErr = handler.NewHTTPError(http.StatusForbidden, "authorization_denied")
	case errors.Is(err, orgauth.ErrAmbiguousAccount):
		httpErr = handler.NewHTTPError(http.StatusConflict, "ambiguous_account")
	default:
		return fmt.Errorf("%w: %w", handler.NewHTTPError(http.StatusBadGateway, "upstream_error"), err)
	}
	return fmt.Errorf("%w: %w", httpErr, err)
}
