package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestLoadUsesDefaults(t *testing.T) {
	unsetenv(t, "BACKEND_URL", "PORT", "BACKEND_TIMEOUT", "SESSION_TTL", "CORS_ALLOWED_ORIGINS")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.BackendURL != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected backend url %q", cfg.BackendURL)
	}
	if cfg.BackendTimeout != 0 {
		t.Fatalf("expected no backend timeout by default, got %s", cfg.BackendTimeout)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected 2h session ttl, got %s", cfg.SessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadTrimsBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://api.example.com/")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackendURL != "https://api.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.BackendURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"relative backend":  {"BACKEND_URL": "localhost:8000"},
		"ftp backend":       {"BACKEND_URL": "ftp://example.com"},
		"zero upload limit": {"MAX_UPLOAD_BYTES": "0"},
		"bad duration":      {"SESSION_TTL": "soon"},
		"zero ttl":          {"SESSION_TTL": "0s"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	} {
		cfg := &Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Fatalf("level %q: expected %v, got %v", in, want, got)
		}
	}
}

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}
