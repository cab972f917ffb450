package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     appConfig
		wantErr bool
	}{
		{"memory", appConfig{AccountStore: "memory", StateStore: "memory", AuditStore: "accounts"}, false},
		{"postgres and redis", appConfig{AccountStore: "postgres", StateStore: "redis", AuditStore: "accounts"}, false},
		{"mongo", appConfig{AccountStore: "mongo", StateStore: "memory", AuditStore: "accounts"}, false},
		{"unknown account store", appConfig{AccountStore: "sqlite", StateStore: "memory", AuditStore: "accounts"}, true},
		{"redis is not an account store", appConfig{AccountStore: "redis", StateStore: "memory", AuditStore: "accounts"}, true},
		{"unknown state store", appConfig{AccountStore: "memory", StateStore: "postgres", AuditStore: "accounts"}, true},
		{"opensearch audit", appConfig{AccountStore: "postgres", StateStore: "redis", AuditStore: "opensearch"}, false},
		{"log audit", appConfig{AccountStore: "mongo", StateStore: "memory", AuditStore: "log"}, false},
		{"unknown audit store", appConfig{AccountStore: "memory", StateStore: "memory", AuditStore: "kafka"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.wantErr {
				assert.Error(t, tt.cfg.validate())
				return
			}
			assert.NoError(t, tt.cfg.validate())
		})
	}
}
