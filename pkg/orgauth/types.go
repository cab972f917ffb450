package orgauth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProviderGitHub identifies GitHub as the external identity provider.
const ProviderGitHub = "github"

// Role is a logical team role used in team-membership mode.
type Role string

const (
	RoleAccess Role = "access"
	RoleAdmin  Role = "admin"
)

// ProfileEmail is a single email entry as reported by the provider.
type ProfileEmail struct {
	Address  string `json:"email"`
	Verified bool   `json:"verified"`
	Primary  bool   `json:"primary"`
}

// ExternalProfile is the identity supplied by the provider for one authorization attempt.
// Emails is optional; when empty the resolver fetches them through the API client.
type ExternalProfile struct {
	Provider    string
	ID          string
	DisplayName string
	Username    string
	ProfileURL  string
	AvatarURL   string
	Emails      []ProfileEmail
	Raw         map[string]any // provider payload kept as the identity cache
}

// Validate checks the fields every later stage relies on.
func (p ExternalProfile) Validate() error {
	if p.Provider == "" {
		return fmt.Errorf("%w: missing provider", ErrInvalidProfile)
	}
	if p.ID == "" {
		return fmt.Errorf("%w: missing provider user id", ErrInvalidProfile)
	}
	return nil
}

// LinkedIdentity connects an Account to one provider identity.
type LinkedIdentity struct {
	Provider    string         `json:"provider"`
	ExternalID  string         `json:"external_id"`
	DisplayName string         `json:"display_name,omitempty"`
	Username    string         `json:"username,omitempty"`
	ProfileURL  string         `json:"profile_url,omitempty"`
	AvatarURL   string         `json:"avatar_url,omitempty"`
	AccessToken string         `json:"access_token,omitempty"`
	Cache       map[string]any `json:"cache,omitempty"`
	LinkedAt    time.Time      `json:"linked_at"`
}

// Account is the local identity record gating access to the system.
// Email is unique across accounts; each (provider, external id) pair appears
// at most once in Identities.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte // placeholder credential, never used for login
	Level        Level
	Identities   []LinkedIdentity
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the linked identity for the provider pair, or nil.
func (a *Account) Identity(provider, externalID string) *LinkedIdentity {
	for i := range a.Identities {
		if a.Identities[i].Provider == provider && a.Identities[i].ExternalID == externalID {
			return &a.Identities[i]
		}
	}
	return nil
}

// Membership is the caller's standing in an organization.
type Membership struct {
	Member bool
	Admin  bool
}

// APIClient is the per-request client of the provider API, authenticated as the caller.
type APIClient interface {
	// Emails lists the caller's email addresses.
	Emails(ctx context.Context) ([]ProfileEmail, error)

	// BelongsToOrganization reports the caller's membership in org.
	BelongsToOrganization(ctx context.Context, org string) (Membership, error)

	// FindTeamWithName returns the provider's identifier of the named team in org.
	// Returns ErrTeamNotFound when the organization has no such team.
	FindTeamWithName(ctx context.Context, org, name string) (string, error)

	// BelongsToTeam reports whether the caller is an active member of the team.
	BelongsToTeam(ctx context.Context, teamID string) (bool, error)
}

// ClientFactory builds an APIClient for a single authorization attempt.
type ClientFactory interface {
	NewClient(accessToken string, profile ExternalProfile) APIClient
}

// ClientFactoryFunc adapts a function to ClientFactory.
type ClientFactoryFunc func(accessToken string, profile ExternalProfile) APIClient

func (f ClientFactoryFunc) NewClient(accessToken string, profile ExternalProfile) APIClient {
	return f(accessToken, profile)
}

// AccountStore persists accounts.
type AccountStore interface {
	// FindAccountsByEmails returns every account whose email is in emails,
	// in no particular order. No match is an empty result, not an error.
	FindAccountsByEmails(ctx context.Context, emails []string) ([]*Account, error)

	// SaveAccount inserts the account or replaces the stored one with the same ID.
	SaveAccount(ctx context.Context, account *Account) error
}
