// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"CRM_DB_PATH" envDefault:"./data/crm.db"`
	CSRFKey    string `env:"CRM_CSRF_KEY,required"`
	ServerHost string `env:"CRM_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"CRM_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"CRM_ENV" envDefault:"development"`
	LogLevel   string `env:"CRM_LOG_LEVEL" envDefault:"info"`

	// Session configuration
	SessionTTLHours int `env:"CRM_SESSION_TTL_HOURS" envDefault:"24"`

	// Audit log retention
	EventRetentionDays int `env:"CRM_EVENT_RETENTION_DAYS" envDefault:"90"`

	// Default interface language
	DefaultLang string `env:"CRM_DEFAULT_LANG" envDefault:"fa"`

	// Seeding configuration
	DoSeed bool `env:"CRM_DO_SEED" envDefault:"true"` // Create default admin on empty database
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// SessionTTL returns the configured session lifetime as a duration.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// EventRetention returns the configured audit log retention as a duration.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// MinCSRFKeyLength is the minimum required length for the CSRF key.
const MinCSRFKeyLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate CSRF key length
	if len(cfg.CSRFKey) < MinCSRFKeyLength {
		return nil, fmt.Errorf("CRM_CSRF_KEY must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinCSRFKeyLength, len(cfg.CSRFKey))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.CSRFKey == weak {
			return nil, fmt.Errorf("CRM_CSRF_KEY is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.CSRFKey) {
		slog.Warn("CRM_CSRF_KEY has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.SessionTTLHours <= 0 {
		return nil, fmt.Errorf("CRM_SESSION_TTL_HOURS must be positive, got %d", cfg.SessionTTLHours)
	}
	if cfg.DefaultLang != "fa" && cfg.DefaultLang != "en" {
		return nil, fmt.Errorf("CRM_DEFAULT_LANG must be fa or en, got %q", cfg.DefaultLang)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
