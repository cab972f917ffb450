package main

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/orggate/pkg/audit"
	"github.com/dmitrymomot/orggate/pkg/auth"
	"github.com/dmitrymomot/orggate/pkg/config"
	"github.com/dmitrymomot/orggate/pkg/httpserver"
	"github.com/dmitrymomot/orggate/pkg/logger"
	"github.com/dmitrymomot/orggate/pkg/mongo"
	"github.com/dmitrymomot/orggate/pkg/opensearch"
	"github.com/dmitrymomot/orggate/pkg/orgauth"
	"github.com/dmitrymomot/orggate/pkg/pg"
	"github.com/dmitrymomot/orggate/pkg/ratelimit"
	"github.com/dmitrymomot/orggate/pkg/redis"
)

// backends holds the storage selected by ACCOUNT_STORE, AUDIT_STORE and STATE_STORE.
type backends struct {
	accounts orgauth.AccountStore
	auditLog audit.BatchWriter
	states   auth.StateStorage
	counters ratelimit.Store
	checks   []httpserver.Check
	closers  []func()
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackends(ctx context.Context, app appConfig, log *slog.Logger) (_ *backends, err error) {
	be := &backends{}
	defer func() {
		if err != nil {
			be.close()
		}
	}()

	switch app.AccountStore {
	case backendPostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		be.closers = append(be.closers, pool.Close)
		if err := pg.Migrate(ctx, pool, cfg, log.With(logger.Component("migrations"))); err != nil {
			return nil, err
		}
		be.accounts = pg.NewAccountStore(pool)
		be.auditLog = pg.NewAuditStore(pool)
		be.checks = append(be.checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})

	case backendMongo:
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		db, err := mongo.ConnectDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		be.closers = append(be.closers, func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				log.Error("failed to disconnect mongo", logger.Error(err))
			}
		})
		store := mongo.NewAccountStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		be.accounts = store
		auditStore := mongo.NewAuditStore(db)
		if err := auditStore.EnsureIndexes(ctx, app.AuditRetention); err != nil {
			return nil, err
		}
		be.auditLog = auditStore
		be.checks = append(be.checks, httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(db.Client())})

	default:
		log.Warn("using in-memory account store, accounts are lost on restart")
		be.accounts = orgauth.NewMemoryStore()
		be.auditLog = audit.NewSlogWriter(log.With(logger.Component("audit")))
	}

	switch app.AuditStore {
	case auditOpenSearch:
		var cfg opensearch.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := opensearch.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		be.auditLog = opensearch.NewAuditStore(client, cfg)
		be.checks = append(be.checks, httpserver.Check{Name: "opensearch", Fn: opensearch.Healthcheck(client)})
	case auditLog:
		be.auditLog = audit.NewSlogWriter(log.With(logger.Component("audit")))
	}

	switch app.StateStore {
	case backendRedis:
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		be.closers = append(be.closers, func() { _ = client.Close() })
		be.states = redis.NewStateStorage(client, cfg)
		be.counters = redis.NewRateLimitStore(client, cfg)
		be.checks = append(be.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})

	default:
		be.states = auth.NewMemoryStateStorage()
		be.counters = ratelimit.NewMemoryStore()
	}

	return be, nil
}
