package github

type userResponse struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	HTMLURL   string `json:"html_url"`
	AvatarURL string `json:"avatar_url"`
}

type emailResponse struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

type orgMembershipResponse struct {
	State string `json:"state"`
	Role  string `json:"role"`
}

type teamResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type teamMembershipResponse struct {
	State string `json:"state"`
	Role  string `json:"role"`
}

type errorResponse struct {
	Message string `json:"message"`
}

const (
	membershipActive = "active"
	roleAdmin        = "admin"
)
