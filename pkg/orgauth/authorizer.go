package orgauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/orggate/pkg/async"
	"github.com/dmitrymomot/orggate/pkg/logger"
)

// ErrInternal wraps failures that are bugs rather than outcomes, such as a panic
// inside a resolution branch or an illegal attempt transition.
var ErrInternal = errors.New("internal authorization error")

// Authorizer turns a provider access token and profile into an authorized local account.
type Authorizer struct {
	cfg          Config
	clients      ClientFactory
	resolver     *AccountResolver
	evaluator    *Evaluator
	synchronizer *Synchronizer
	logger       *slog.Logger
}

// New wires an Authorizer. teams may be shared across authorizers for the same
// configuration; nil creates a private cache.
func New(cfg Config, store AccountStore, clients ClientFactory, teams *TeamCache, opts ...Option) *Authorizer {
	o := newOptions(opts)
	if teams == nil {
		teams = NewTeamCache(cfg, opts...)
	}
	return &Authorizer{
		cfg:          cfg,
		clients:      clients,
		resolver:     NewAccountResolver(store, opts...),
		evaluator:    NewEvaluator(cfg, teams, opts...),
		synchronizer: NewSynchronizer(store, opts...),
		logger:       o.logger,
	}
}

// Verify resolves the account and evaluates the level concurrently, then links
// the identity and stores the level. The first branch error is returned as soon
// as it happens; the other branch is left to finish and its result is dropped.
func (a *Authorizer) Verify(ctx context.Context, accessToken string, profile ExternalProfile) (*Account, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	log := a.logger.With(logger.Provider(profile.Provider), logger.ExternalID(profile.ID))
	attempt := newAttempt(log)
	fail := func(err error) (*Account, error) {
		if ferr := attempt.Fire(ctx, eventFail, err); ferr != nil {
			log.ErrorContext(ctx, "failed to record attempt failure", logger.Error(ferr))
		}
		if IsTransportError(err) {
			log.ErrorContext(ctx, "authorization attempt failed", logger.Error(err))
		}
		return nil, err
	}
	advance := func(event attemptEvent, data any) error {
		if err := attempt.Fire(ctx, event, data); err != nil {
			return fmt.Errorf("%w: %w", ErrInternal, err)
		}
		return nil
	}

	client := a.clients.NewClient(accessToken, profile)
	if err := advance(eventLaunch, nil); err != nil {
		return fail(err)
	}

	accountF := async.Async(ctx, profile, func(ctx context.Context, p ExternalProfile) (*Account, error) {
		return a.resolver.Resolve(ctx, client, p)
	})
	levelF := async.Async(ctx, client, a.evaluator.Evaluate)

	account, level, err := async.Both(accountF, levelF)
	if err != nil {
		return fail(err)
	}
	if err := advance(eventMerge, level); err != nil {
		return fail(err)
	}

	if !level.Authorized() {
		if err := advance(eventDeny, level); err != nil {
			return fail(err)
		}
		log.InfoContext(ctx, "authorization denied",
			logger.AccountID(account.ID),
			logger.Organization(a.cfg.Organization),
		)
		return nil, fmt.Errorf("%w: not a member of %s", ErrAuthorizationDenied, a.cfg.Organization)
	}

	if err := advance(eventSync, level); err != nil {
		return fail(err)
	}
	account, err = a.synchronizer.Sync(ctx, account, level, profile, accessToken)
	if err != nil {
		return fail(err)
	}
	if err := advance(eventComplete, nil); err != nil {
		return fail(err)
	}

	log.InfoContext(ctx, "authorization granted",
		logger.AccountID(account.ID),
		logger.Level(level),
	)
	return account, nil
}

// VerifyCallback runs Verify and reports the outcome to done exactly once,
// before returning. A panic during verification is reported as ErrInternal.
func (a *Authorizer) VerifyCallback(ctx context.Context, accessToken string, profile ExternalProfile, done func(*Account, error)) {
	reported := false
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if reported {
			panic(r)
		}
		a.logger.ErrorContext(ctx, "authorization panicked", slog.Any("panic", r))
		done(nil, fmt.Errorf("%w: %v", ErrInternal, r))
	}()

	account, err := a.Verify(ctx, accessToken, profile)
	reported = true
	done(account, err)
}
