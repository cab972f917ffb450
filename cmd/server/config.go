package main

import (
	"fmt"
	"slices"
	"time"
)

// Backend names accepted by ACCOUNT_STORE and STATE_STORE.
const (
	backendMemory   = "memory"
	backendPostgres = "postgres"
	backendMongo    = "mongo"
	backendRedis    = "redis"

	auditAccounts   = "accounts"
	auditOpenSearch = "opensearch"
	auditLog        = "log"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"orggate"`

	// AccountStore selects where accounts live: memory, postgres or mongo.
	AccountStore string `env:"ACCOUNT_STORE" envDefault:"memory"`
	// StateStore selects where OAuth state and rate limit counters live: memory or redis.
	StateStore string `env:"STATE_STORE" envDefault:"memory"`

	// TrustedIPHeaders lists proxy headers carrying the client IP, in order of preference.
	TrustedIPHeaders []string `env:"HTTP_TRUSTED_IP_HEADERS" envSeparator:","`

	// AuditStore selects the audit sink: accounts (same backend as
	// ACCOUNT_STORE, the log when that is memory), opensearch or log.
	AuditStore string `env:"AUDIT_STORE" envDefault:"accounts"`
	// AuditRetention expires MongoDB audit events after this age; zero keeps them.
	AuditRetention time.Duration `env:"AUDIT_RETENTION" envDefault:"0s"`
}

func (c appConfig) validate() error {
	if !slices.Contains([]string{backendMemory, backendPostgres, backendMongo}, c.AccountStore) {
		return fmt.Errorf("unsupported ACCOUNT_STORE %q", c.AccountStore)
	}
	if !slices.Contains([]string{backendMemory, backendRedis}, c.StateStore) {
		return fmt.Errorf("unsupported STATE_STORE %q", c.StateStore)
	}
	if !slices.Contains([]string{auditAccounts, auditOpenSearch, auditLog}, c.AuditStore) {
		return fmt.Errorf("unsupported AUDIT_STORE %q", c.AuditStore)
	}
	return nil
}
