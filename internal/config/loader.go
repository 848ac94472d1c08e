package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/cropprospector/backend/pkg/logger"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "PROSPECTOR_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PROSPECTOR_CONFIG is set
//  3. env (prefix PROSPECTOR_, "__" separates nested keys)
//  4. DATABASE_URL and PORT, only when the prefixed keys are absent
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %v", ErrLoadConfig, path, err)
		}
	}

	// PROSPECTOR_HISTORY__DRIVER -> history.driver
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Platform conventions used by hosted Postgres and container runtimes.
	if !k.Exists("history.database_url") {
		if url := os.Getenv("DATABASE_URL"); url != "" {
			cfg.History.DatabaseURL = url
		}
	}
	if !k.Exists("addr") {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Addr = ":" + port
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	case c.MaxBatchSize < 1:
		return fmt.Errorf("%w: max_batch_size must be at least 1", ErrInvalidConfig)
	case c.BatchConcurrency < 1:
		return fmt.Errorf("%w: batch_concurrency must be at least 1", ErrInvalidConfig)
	case c.History.MaxLimit < 1:
		return fmt.Errorf("%w: history.max_limit must be at least 1", ErrInvalidConfig)
	case c.History.MemoryCapacity < 1:
		return fmt.Errorf("%w: history.memory_capacity must be at least 1", ErrInvalidConfig)
	case c.History.SaveTimeout <= 0:
		return fmt.Errorf("%w: history.save_timeout must be positive", ErrInvalidConfig)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	switch c.History.ResolvedDriver() {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.History.SQLitePath) == "" {
			return fmt.Errorf("%w: history.sqlite_path is required for the sqlite driver", ErrInvalidConfig)
		}
	case DriverPostgres:
		if strings.TrimSpace(c.History.DatabaseURL) == "" {
			return fmt.Errorf("%w: history.database_url is required for the postgres driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown history.driver %q", ErrInvalidConfig, c.History.Driver)
	}
	return nil
}
