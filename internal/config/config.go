package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	// Backend
	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://127.0.0.1:8000"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"0s"`

	// Page sessions
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`

	// Requests
	MaxUploadBytes     int64    `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	u, err := url.Parse(cfg.BackendURL)
	if err != nil {
		return nil, fmt.Errorf("parse BACKEND_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("BACKEND_URL must be an absolute http(s) URL, got %q", cfg.BackendURL)
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
