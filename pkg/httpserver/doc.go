// Package httpserver runs an http.Server with graceful shutdown and provides
// liveness and readiness handlers.
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	r.Get("/health/live", httpserver.LivenessHandler())
//	r.Get("/health/ready", httpserver.ReadinessHandler(log, 2*time.Second,
//		httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)},
//	))
//	if err := srv.Run(ctx, r); err != nil {
//		return err
//	}
//
// Run returns when ctx is canceled or on SIGINT/SIGTERM. Listen errors are
// wrapped with ErrStart, shutdown errors with ErrShutdown.
package httpserver
