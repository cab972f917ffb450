package orgauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dmitrymomot/orggate/pkg/logger"
)

type teamEntry struct {
	id    string
	found bool
}

// TeamCache remembers the provider identifier of each configured team.
// Each role is written at most once per distinct outcome and read lock-free;
// concurrent first calls may look the team up redundantly and the last write wins.
// Transport failures are never cached.
type TeamCache struct {
	org     string
	names   map[Role]string
	entries map[Role]*atomic.Pointer[teamEntry]
	logger  *slog.Logger
}

// NewTeamCache creates an empty cache for the teams named in cfg.
func NewTeamCache(cfg Config, opts ...Option) *TeamCache {
	o := newOptions(opts)
	return &TeamCache{
		org: cfg.Organization,
		names: map[Role]string{
			RoleAccess: cfg.AccessTeamName,
			RoleAdmin:  cfg.AdminTeamName,
		},
		entries: map[Role]*atomic.Pointer[teamEntry]{
			RoleAccess: {},
			RoleAdmin:  {},
		},
		logger: o.logger,
	}
}

// teamFinder is the part of APIClient the cache needs.
type teamFinder interface {
	FindTeamWithName(ctx context.Context, org, name string) (string, error)
}

// Resolve returns the team identifier for role. ok is false when the team is
// not configured or does not exist in the organization. ErrTeamsNotVisible is
// returned as is and leaves the entry empty for the next caller.
func (c *TeamCache) Resolve(ctx context.Context, client teamFinder, role Role) (id string, ok bool, err error) {
	slot, known := c.entries[role]
	if !known {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if entry := slot.Load(); entry != nil {
		return entry.id, entry.found, nil
	}

	name := c.names[role]
	if name == "" {
		slot.Store(&teamEntry{})
		return "", false, nil
	}

	id, err = client.FindTeamWithName(ctx, c.org, name)
	switch {
	case errors.Is(err, ErrTeamNotFound):
		c.logger.WarnContext(ctx, "configured team does not exist",
			logger.Organization(c.org),
			logger.Team(string(role), name),
		)
		slot.Store(&teamEntry{})
		return "", false, nil
	case errors.Is(err, ErrTeamsNotVisible):
		return "", false, err
	case err != nil:
		return "", false, fmt.Errorf("failed to look up %s team %q: %w", role, name, err)
	}

	slot.Store(&teamEntry{id: id, found: true})
	c.logger.DebugContext(ctx, "team identifier cached",
		logger.Team(string(role), name),
		slog.String("team_id", id),
	)
	return id, true, nil
}

// Reset forgets every cached outcome.
func (c *TeamCache) Reset() {
	for _, slot := range c.entries {
		slot.Store(nil)
	}
}
