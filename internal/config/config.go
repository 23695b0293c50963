// Package config loads runtime settings from ORDENS_* environment variables.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Prefix is prepended to every environment variable name.
const Prefix = "ORDENS_"

// Config represents the ordens runtime configuration.
type Config struct {
	DBPath    string `env:"DB_PATH"`
	LogLevel  string `env:"LOG_LEVEL, default=info" validate:"oneof=trace debug info warn warning error"`
	LogPretty bool   `env:"LOG_PRETTY, default=true"`

	// Actor is the email of the acting consultant when --as is not given.
	Actor string `env:"ACTOR" validate:"omitempty,email"`

	PlaceholderStrategy string `env:"PLACEHOLDER_STRATEGY, default=timestamp" validate:"oneof=timestamp uuid"`
	StaleAfterDays      int    `env:"STALE_AFTER_DAYS, default=30" validate:"min=1"`
	BusyTimeoutMS       int    `env:"BUSY_TIMEOUT_MS, default=5000" validate:"min=0"`
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads the configuration through l, applying the ORDENS_ prefix.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(Prefix, l),
	}); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.DBPath == "" {
		path, err := DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = path
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultDBPath returns ~/.ordens/ordens.db.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ordens", "ordens.db"), nil
}
