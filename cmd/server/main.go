// Command server runs the GitHub organization gate: an OAuth sign in
// endpoint that admits members of one GitHub organization (optionally of
// its access or admin team) and keeps their local accounts in sync.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/orggate/modules/githubauth"
	"github.com/dmitrymomot/orggate/pkg/audit"
	"github.com/dmitrymomot/orggate/pkg/auth"
	"github.com/dmitrymomot/orggate/pkg/clientip"
	"github.com/dmitrymomot/orggate/pkg/config"
	"github.com/dmitrymomot/orggate/pkg/github"
	"github.com/dmitrymomot/orggate/pkg/httpserver"
	"github.com/dmitrymomot/orggate/pkg/logger"
	"github.com/dmitrymomot/orggate/pkg/orgauth"
	"github.com/dmitrymomot/orggate/pkg/ratelimit"
	"github.com/dmitrymomot/orggate/pkg/requestid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var app appConfig
	if err := config.Load(&app); err != nil {
		return err
	}
	if err := app.validate(); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Name),
		logger.WithExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	var (
		orgCfg    orgauth.Config
		apiCfg    github.Config
		oauthCfg  auth.GitHubOAuthConfig
		httpCfg   httpserver.Config
		limitsCfg ratelimit.Config
		auditCfg  audit.AsyncOptions
	)
	for _, load := range []func() error{
		func() error { return config.Load(&orgCfg) },
		func() error { return config.Load(&apiCfg) },
		func() error { return config.Load(&oauthCfg) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&limitsCfg) },
		func() error { return config.Load(&auditCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	be, err := openBackends(ctx, app, log)
	if err != nil {
		return err
	}
	defer be.close()

	orgOpts := []orgauth.Option{orgauth.WithLogger(log.With(logger.Component("orgauth")))}
	teams := orgauth.NewTeamCache(orgCfg, orgOpts...)
	apiHTTP := &http.Client{Timeout: 15 * time.Second}
	clients := github.NewClientFactory(apiCfg, apiHTTP, github.WithLogger(log.With(logger.Component("github"))))
	authorizer := orgauth.New(orgCfg, be.accounts, clients, teams, orgOpts...)

	adapter := auth.NewGitHubAdapter(oauthCfg,
		auth.WithGitHubHTTPClient(apiHTTP),
		auth.WithGitHubAPIOptions(github.WithBaseURL(apiCfg.BaseURL), github.WithUserAgent(apiCfg.UserAgent)),
	)
	authn := auth.NewOAuthService(be.states, adapter, authorizer,
		auth.WithLogger(log.With(logger.Component("oauth"))),
		auth.WithStateTTL(oauthCfg.StateTTL),
	)

	auditWriter := audit.NewAsyncWriter(be.auditLog, auditCfg, log)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditCfg.StorageTimeout)
		defer cancel()
		if err := auditWriter.Close(ctx); err != nil {
			log.Error("failed to flush audit events", logger.Error(err))
		}
	}()

	limiter, err := ratelimit.NewLimiter(be.counters, limitsCfg)
	if err != nil {
		return err
	}

	go resetTeamsOnHangup(ctx, teams, log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware(clientip.NewResolver(app.TrustedIPHeaders...)))
	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, 3*time.Second, be.checks...))
	r.Group(func(r chi.Router) {
		r.Use(ratelimit.Middleware(limiter, ratelimit.ByClientIP("auth"), ratelimit.WithLogger(log)))
		r.Mount("/", githubauth.Router(githubauth.RouterOptions{
			GitHub: githubauth.NewService(authn,
				githubauth.WithLogger(log),
				githubauth.WithAuditRecorder(audit.NewRecorder(auditWriter)),
			),
		}))
	})

	srv := httpserver.New(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(addr net.Addr) {
			log.Info("server started",
				slog.String("addr", addr.String()),
				logger.Organization(orgCfg.Organization),
				slog.Bool("team_mode", orgCfg.TeamMode()),
				slog.String("account_store", app.AccountStore),
				slog.String("state_store", app.StateStore),
				slog.String("audit_store", app.AuditStore),
			)
		}),
	)
	if err := srv.Run(ctx, r); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// resetTeamsOnHangup drops cached team IDs on SIGHUP, e.g. after a team was
// created or renamed on GitHub.
func resetTeamsOnHangup(ctx context.Context, teams *orgauth.TeamCache, log *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			teams.Reset()
			log.Info("team cache reset")
		}
	}
}
