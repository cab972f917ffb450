package orgauth

// Config selects the organization and, optionally, the teams that gate access.
// When both team names are set, authorization is derived from team membership;
// otherwise from organization membership.
type Config struct {
	Organization   string `env:"GITHUB_ORGANIZATION,required"`
	AccessTeamName string `env:"GITHUB_ACCESS_TEAM"`
	AdminTeamName  string `env:"GITHUB_ADMIN_TEAM"`
}

// TeamMode reports whether authorization is derived from team membership.
func (c Config) TeamMode() bool {
	return c.AccessTeamName != "" && c.AdminTeamName != ""
}

// TeamName returns the configured team name for role, empty when unset.
func (c Config) TeamName(role Role) string {
	switch role {
	case RoleAccess:
		return c.AccessTeamName
	case RoleAdmin:
		return c.AdminTeamName
	default:
		return ""
	}
}
