package config

import (
	"fmt"
	"time"
)

// ServiceName tags every log line emitted by this process.
const ServiceName = "snet-converter-services"

// ObservabilityConfig groups configuration related to runtime visibility.
type ObservabilityConfig struct {
	// ServiceName identifies this service in logs. Forced by LoadConfig.
	ServiceName string `koanf:"service_name"`

	// Environment mirrors Primary.Env (production, staging, development, local).
	Environment string `koanf:"environment"`

	Logging LoggingConfig `koanf:"logging"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	Level string `koanf:"level"`

	// Format selects the output format: "json" or "console".
	Format string `koanf:"format"`

	// SlowQueryThreshold is the duration beyond which a query is logged as
	// slow. Zero disables the check. Env values must be duration strings
	// ("100ms", "1s").
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// DefaultObservabilityConfig provides a safe set of defaults.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",
		Logging: LoggingConfig{
			Level:              "info",
			Format:             "json",
			SlowQueryThreshold: 100 * time.Millisecond,
		},
	}
}

// Validate applies rules that go beyond struct tags.
// It returns the first failure found.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	// Empty is allowed: GetLogLevel picks one from the environment.
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %s (must be json or console)", c.Logging.Format)
	}

	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	}

	return nil
}

// GetLogLevel returns the effective log level to use at runtime.
//
//   - In production: default to "info" if no level is set.
//   - In development: default to "debug" if no level is set.
//
// Otherwise it returns whatever c.Logging.Level is set to.
func (c *ObservabilityConfig) GetLogLevel() string {
	switch c.Environment {
	case "production":
		if c.Logging.Level == "" {
			return "info"
		}
	case "development", "local":
		if c.Logging.Level == "" {
			return "debug"
		}
	}

	if c.Logging.Level == "" {
		return "info"
	}
	return c.Logging.Level
}

// IsProduction reports whether the application is running in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}
