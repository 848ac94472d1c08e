// Package config defines service configuration structures and loading hooks.
package config

import (
	"time"
)

// History store drivers.
const (
	DriverAuto     = "auto"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// Env is the deployment environment; "development" switches to console logs.
	Env string `koanf:"env"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CatalogPath optionally replaces the embedded crop catalog with a YAML file.
	CatalogPath string `koanf:"catalog_path"`

	// MaxBatchSize caps POST /api/v1/recommendations/batch.
	MaxBatchSize int `koanf:"max_batch_size"`

	// BatchConcurrency bounds goroutines used for one batch.
	BatchConcurrency int `koanf:"batch_concurrency"`

	History HistoryConfig `koanf:"history"`
}

// HistoryConfig selects and tunes the query history store.
type HistoryConfig struct {
	// Driver is one of auto, memory, sqlite, postgres. Auto picks postgres
	// when DatabaseURL is set and memory otherwise.
	Driver string `koanf:"driver"`

	DatabaseURL string `koanf:"database_url"`
	SQLitePath  string `koanf:"sqlite_path"`

	// MaxLimit caps GET /api/v1/history?limit.
	MaxLimit int `koanf:"max_limit"`

	// MemoryCapacity is how many records the in-memory store keeps.
	MemoryCapacity int `koanf:"memory_capacity"`

	// SaveTimeout bounds each background history write.
	SaveTimeout time.Duration `koanf:"save_timeout"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		Env:              "development",
		LogLevel:         "info",
		Addr:             ":8080",
		ReadTimeout:      10 * time.Second,
		WriteTimeout:     10 * time.Second,
		ShutdownTimeout:  5 * time.Second,
		MaxBatchSize:     20,
		BatchConcurrency: 4,
		History: HistoryConfig{
			Driver:         DriverAuto,
			SQLitePath:     "prospector.db",
			MaxLimit:       100,
			MemoryCapacity: 500,
			SaveTimeout:    5 * time.Second,
		},
	}
}

// ResolvedDriver returns the concrete history driver, resolving auto.
func (h HistoryConfig) ResolvedDriver() string {
	if h.Driver != DriverAuto && h.Driver != "" {
		return h.Driver
	}
	if h.DatabaseURL != "" {
		return DriverPostgres
	}
	return DriverMemory
}
