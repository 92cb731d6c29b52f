package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://override:5432/library?sslmode=disable")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("LOGIN_RATE_LIMIT_PER_MINUTE", "3")

	path := writeConfig(t, `
port: "8080"
logLevel: "info"
databaseURL: "postgres://file:5432/library?sslmode=disable"
jwtSecret: "file-secret"
sessionTTL: "12h"
loginRateLimitPerMinute: 10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DatabaseURL != "postgres://override:5432/library?sslmode=disable" {
		t.Fatalf("databaseURL = %q, want env override", cfg.DatabaseURL)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Fatalf("jwtSecret = %q, want env override", cfg.JWTSecret)
	}
	if cfg.LoginRateLimitPerMinute != 3 {
		t.Fatalf("loginRateLimitPerMinute = %d, want 3", cfg.LoginRateLimitPerMinute)
	}

	ttl, err := ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		t.Fatalf("parse session ttl: %v", err)
	}
	if ttl != 12*time.Hour {
		t.Fatalf("sessionTTL = %v, want 12h", ttl)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing port", content: "databaseURL: \"postgres://db\"\njwtSecret: \"s\"\n"},
		{name: "missing database", content: "port: \"8080\"\njwtSecret: \"s\"\n"},
		{name: "no session backend", content: "port: \"8080\"\ndatabaseURL: \"postgres://db\"\n"},
		{name: "negative rate limit", content: "port: \"8080\"\ndatabaseURL: \"postgres://db\"\njwtSecret: \"s\"\nsignupRateLimitPerMinute: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestParseSessionTTLInvalid(t *testing.T) {
	if _, err := ParseSessionTTL("not-a-duration"); err == nil {
		t.Fatalf("expected parse error")
	}
	if ttl, err := ParseSessionTTL(""); err != nil || ttl != 0 {
		t.Fatalf("empty ttl should be zero without error, got %v %v", ttl, err)
	}
}
