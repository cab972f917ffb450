package orgauth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNoVerifiedEmail is returned when the provider profile has no verified address.
	ErrNoVerifiedEmail = errors.New("no verified email address from provider")

	// ErrAmbiguousAccount is returned when verified emails match more than one local account.
	ErrAmbiguousAccount = errors.New("verified emails match more than one account")

	// ErrAuthorizationDenied is returned when membership checks succeeded but grant no access.
	ErrAuthorizationDenied = errors.New("access denied")

	ErrInvalidProfile = errors.New("invalid provider profile")
	ErrInvalidLevel   = errors.New("invalid authorization level")
	ErrTeamNotFound   = errors.New("team not found")

	// ErrTeamsNotVisible is returned by APIClient.FindTeamWithName when the
	// caller may not list the organization's teams. It says nothing about
	// whether the team exists, so it is never cached.
	ErrTeamsNotVisible = errors.New("organization teams not visible to caller")

	ErrUnknownRole    = errors.New("unknown team role")

	// ErrDuplicateEmail is returned by stores when saving would give two accounts the same email.
	ErrDuplicateEmail = errors.New("email already belongs to another account")
)

// AmbiguousAccountError names the conflicting accounts behind ErrAmbiguousAccount.
type AmbiguousAccountError struct {
	Emails     []string
	AccountIDs []uuid.UUID
}

func (e *AmbiguousAccountError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAmbiguousAccount, strings.Join(e.Emails, ", "))
}

func (e *AmbiguousAccountError) Unwrap() error {
	return ErrAmbiguousAccount
}

// IsTransportError reports whether err is an infrastructure failure (provider API
// or account store) rather than a decision made by this package.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}
	for _, domainErr := range []error{
		ErrNoVerifiedEmail,
		ErrAmbiguousAccount,
		ErrAuthorizationDenied,
		ErrInvalidProfile,
	} {
		if errors.Is(err, domainErr) {
			return false
		}
	}
	return true
}
