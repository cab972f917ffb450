package githubauth

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/orggate/pkg/orgauth"
)

// AccountView is the public representation of an authorized account.
type AccountView struct {
	ID         uuid.UUID      `json:"id"`
	Email      string         `json:"email"`
	Level      orgauth.Level  `json:"level"`
	Identities []IdentityView `json:"identities"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// IdentityView is a linked identity without its access token and cache.
type IdentityView struct {
	Provider    string    `json:"provider"`
	ExternalID  string    `json:"external_id"`
	Username    string    `json:"username,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	ProfileURL  string    `json:"profile_url,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	LinkedAt    time.Time `json:"linked_at"`
}

func newAccountView(a *orgauth.Account) AccountView {
	v := AccountView{
		ID:         a.ID,
		Email:      a.Email,
		Level:      a.Level,
		Identities: make([]IdentityView, 0, len(a.Identities)),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	for _, i := range a.Identities {
		v.Identities = append(v.Identities, IdentityView{
			Provider:    i.Provider,
			ExternalID:  i.ExternalID,
			Username:    i.Username,
			DisplayName: i.DisplayName,
			ProfileURL:  i.ProfileURL,
			AvatarURL:   i.AvatarURL,
			LinkedAt:    i.LinkedAt,
		})
	}
	return v
}
