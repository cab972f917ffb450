package orgauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/orggate/pkg/async"
	"github.com/dmitrymomot/orggate/pkg/logger"
)

// Evaluator derives a Level from the caller's organization or team membership.
type Evaluator struct {
	cfg    Config
	teams  *TeamCache
	logger *slog.Logger
}

// NewEvaluator creates an evaluator. A nil teams cache is replaced by a fresh one.
func NewEvaluator(cfg Config, teams *TeamCache, opts ...Option) *Evaluator {
	o := newOptions(opts)
	if teams == nil {
		teams = NewTeamCache(cfg, opts...)
	}
	return &Evaluator{cfg: cfg, teams: teams, logger: o.logger}
}

// Evaluate computes the caller's level. Membership that grants nothing is
// LevelUnauthorized, not an error.
func (e *Evaluator) Evaluate(ctx context.Context, client APIClient) (Level, error) {
	if e.cfg.TeamMode() {
		return e.evaluateTeams(ctx, client)
	}
	return e.evaluateOrganization(ctx, client)
}

func (e *Evaluator) evaluateOrganization(ctx context.Context, client APIClient) (Level, error) {
	membership, err := client.BelongsToOrganization(ctx, e.cfg.Organization)
	if err != nil {
		return LevelUnauthorized, fmt.Errorf("failed to check organization membership: %w", err)
	}
	level := levelFromMembership(membership)
	e.logger.DebugContext(ctx, "organization membership evaluated",
		logger.Organization(e.cfg.Organization),
		logger.Level(level),
	)
	return level, nil
}

type teamRef struct {
	id string
	ok bool
}

func (e *Evaluator) evaluateTeams(ctx context.Context, client APIClient) (Level, error) {
	resolve := func(ctx context.Context, role Role) (teamRef, error) {
		id, ok, err := e.teams.Resolve(ctx, client, role)
		return teamRef{id: id, ok: ok}, err
	}
	refs, err := async.WaitAll(
		async.Async(ctx, RoleAccess, resolve),
		async.Async(ctx, RoleAdmin, resolve),
	)
	switch {
	case errors.Is(err, ErrTeamsNotVisible):
		e.logger.DebugContext(ctx, "caller cannot see organization teams, access not granted",
			logger.Organization(e.cfg.Organization),
		)
		return LevelUnauthorized, nil
	case err != nil:
		return LevelUnauthorized, err
	}

	access, admin := refs[0], refs[1]
	if !access.ok || !admin.ok {
		e.logger.DebugContext(ctx, "team not resolved, access not granted",
			logger.Organization(e.cfg.Organization),
		)
		return LevelUnauthorized, nil
	}

	belongs := func(ctx context.Context, teamID string) (bool, error) {
		member, err := client.BelongsToTeam(ctx, teamID)
		if err != nil {
			return false, fmt.Errorf("failed to check membership of team %s: %w", teamID, err)
		}
		return member, nil
	}
	members, err := async.WaitAll(
		async.Async(ctx, access.id, belongs),
		async.Async(ctx, admin.id, belongs),
	)
	if err != nil {
		return LevelUnauthorized, err
	}

	level := LevelUnauthorized
	switch {
	case members[1]:
		level = LevelAdmin
	case members[0]:
		level = LevelStandard
	}
	e.logger.DebugContext(ctx, "team membership evaluated",
		logger.Organization(e.cfg.Organization),
		logger.Level(level),
	)
	return level, nil
}
