// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New builds a Config holding every default.
// - Load layers a YAML file, a .env file and SALESBOARD_* env vars on top.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/okian/salesboard/internal/adapters/repository"
	"github.com/okian/salesboard/pkg/logger"
	"github.com/okian/salesboard/pkg/metrics"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Timezone is the IANA zone used to decide "today" for events logged
	// without a date.
	Timezone string `koanf:"timezone"`

	// Store selects and configures the catalog and event-log backend.
	Store StoreConfig `koanf:"store"`

	// Metrics names and labels the exported Prometheus series.
	Metrics MetricsConfig `koanf:"metrics"`
}

// MetricsConfig configures the metrics manager.
type MetricsConfig struct {
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`

	// Buckets overrides the latency histogram buckets, in milliseconds.
	Buckets []float64 `koanf:"buckets"`

	// Labels are constant labels added to every series, e.g. instance.
	Labels map[string]string `koanf:"labels"`
}

// StoreConfig configures the repository driver.
type StoreConfig struct {
	// Driver is one of file, memory, redis, postgres.
	Driver string `koanf:"driver"`

	// DataDir is where the file driver keeps its JSON documents.
	DataDir string `koanf:"data_dir"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`

	// PostgresDSN is a libpq-style connection string or URL.
	PostgresDSN string `koanf:"postgres_dsn"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: logger.FormatText,
		Addr:      ":3000",
		Timezone:  "UTC",
		Store: StoreConfig{
			Driver:      repository.DriverFile,
			DataDir:     "data",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "salesboard",
		},
		Metrics: MetricsConfig{
			Namespace: "salesboard",
			Subsystem: "leaderboard",
		},
	}
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if !slices.Contains(repository.Drivers, c.Store.Driver) {
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Store.Driver == repository.DriverPostgres && c.Store.PostgresDSN == "" {
		return fmt.Errorf("%w: store.postgres_dsn is required for the postgres driver", ErrInvalidConfig)
	}
	if c.LogFormat != logger.FormatText && c.LogFormat != logger.FormatJSON {
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for i := 1; i < len(c.Metrics.Buckets); i++ {
		if c.Metrics.Buckets[i] <= c.Metrics.Buckets[i-1] {
			return fmt.Errorf("%w: metrics.buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// StoreOptions translates the store settings into repository options.
func (c *Config) StoreOptions() []repository.Option {
	return []repository.Option{
		repository.WithDataDir(c.Store.DataDir),
		repository.WithRedis(repository.RedisConfig{
			Addr:     c.Store.RedisAddr,
			Password: c.Store.RedisPassword,
			DB:       c.Store.RedisDB,
			Prefix:   c.Store.RedisPrefix,
		}),
		repository.WithPostgresDSN(c.Store.PostgresDSN),
	}
}

// MetricsOptions translates the metrics settings into manager options.
func (c *Config) MetricsOptions() []metrics.Option {
	return []metrics.Option{
		metrics.WithNamespace(c.Metrics.Namespace),
		metrics.WithSubsystem(c.Metrics.Subsystem),
		metrics.WithHistogramBuckets(c.Metrics.Buckets),
		metrics.WithCustomLabels(c.Metrics.Labels),
	}
}
