// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (settler.yaml), with ${VAR} expansion
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv("settler.yaml")
//	tolerance, err := cfg.Matching.ToleranceDecimal()
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Matching      MatchingConfig      `yaml:"matching"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// MatchingConfig holds search defaults
type MatchingConfig struct {
	Tolerance               string        `yaml:"tolerance"`
	MaxResults              int           `yaml:"max_results"` // per owner/counterparty pair
	Strategy                string        `yaml:"strategy"`
	MaxExhaustiveCandidates int           `yaml:"max_exhaustive_candidates"`
	Timeout                 time.Duration `yaml:"timeout"`
	Workers                 int           `yaml:"workers"`
}

// NotificationsConfig holds the aging alert threshold
type NotificationsConfig struct {
	PendingAgeDays int `yaml:"pending_age_days"`
}

// StorageConfig holds database configuration. An empty path disables persistence.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging     LoggingConfig `yaml:"logging"`
	MetricsFile string        `yaml:"metrics_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Matching: MatchingConfig{
			Tolerance:               "1500",
			MaxResults:              5,
			Strategy:                "exhaustive",
			MaxExhaustiveCandidates: 20,
			Timeout:                 30 * time.Second,
			Workers:                 4,
		},
		Notifications: NotificationsConfig{
			PendingAgeDays: 180,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// Load reads and parses the config file. Unset keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	def := Default()
	return &Config{
		Matching: MatchingConfig{
			Tolerance:               getEnv("SETTLER_TOLERANCE", def.Matching.Tolerance),
			MaxResults:              getEnvInt("SETTLER_MAX_RESULTS", def.Matching.MaxResults),
			Strategy:                getEnv("SETTLER_STRATEGY", def.Matching.Strategy),
			MaxExhaustiveCandidates: getEnvInt("SETTLER_MAX_EXHAUSTIVE_CANDIDATES", def.Matching.MaxExhaustiveCandidates),
			Timeout:                 getEnvDuration("SETTLER_TIMEOUT", def.Matching.Timeout),
			Workers:                 getEnvInt("SETTLER_WORKERS", def.Matching.Workers),
		},
		Notifications: NotificationsConfig{
			PendingAgeDays: getEnvInt("SETTLER_PENDING_AGE_DAYS", def.Notifications.PendingAgeDays),
		},
		Storage: StorageConfig{
			DatabasePath: os.Getenv("SETTLER_DB_PATH"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", def.Observability.Logging.Level),
				Format: getEnv("LOG_FORMAT", def.Observability.Logging.Format),
			},
			MetricsFile: os.Getenv("SETTLER_METRICS_FILE"),
		},
	}
}

// LoadOrEnv tries to load from path, falls back to environment variables
func LoadOrEnv(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// Validate checks values that would make searches misbehave.
func (c *Config) Validate() error {
	tol, err := c.Matching.ToleranceDecimal()
	if err != nil {
		return err
	}
	if tol.IsNegative() {
		return fmt.Errorf("matching.tolerance must not be negative, got %s", tol)
	}
	if c.Matching.MaxResults < 0 {
		return fmt.Errorf("matching.max_results must not be negative, got %d", c.Matching.MaxResults)
	}
	if c.Matching.MaxExhaustiveCandidates < 1 {
		return fmt.Errorf("matching.max_exhaustive_candidates must be positive, got %d", c.Matching.MaxExhaustiveCandidates)
	}
	if c.Matching.Workers < 1 {
		return fmt.Errorf("matching.workers must be positive, got %d", c.Matching.Workers)
	}
	if c.Notifications.PendingAgeDays < 0 {
		return fmt.Errorf("notifications.pending_age_days must not be negative, got %d", c.Notifications.PendingAgeDays)
	}
	switch c.Observability.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("observability.logging.format must be text or json, got %q", c.Observability.Logging.Format)
	}
	return nil
}

// ToleranceDecimal parses the configured tolerance.
func (m MatchingConfig) ToleranceDecimal() (decimal.Decimal, error) {
	tol, err := decimal.NewFromString(m.Tolerance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("matching.tolerance %q is not a number: %w", m.Tolerance, err)
	}
	return tol, nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
