package config

import (
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/services/dbprobe"
	"github.com/soroush-saki/self-healing-framework/internal/services/redisprobe"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Recovery RecoveryConfig `yaml:"recovery"`
	Probes   ProbesConfig   `yaml:"probes"`
}

// ServerConfig holds health HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MonitorConfig holds supervision loop settings.
type MonitorConfig struct {
	MaxFailures  int           `yaml:"max_failures"`  // consecutive-failure ceiling
	PollInterval time.Duration `yaml:"poll_interval"` // sleep between loop iterations
}

// RecoveryConfig tunes the recovery strategies.
type RecoveryConfig struct {
	RetryMaxAttempts int           `yaml:"retry_max_attempts"`
	RetryBaseDelay   time.Duration `yaml:"retry_base_delay"`
	RestartDelay     time.Duration `yaml:"restart_delay"`
	RestartCleanup   *bool         `yaml:"restart_cleanup"` // nil means enabled
}

// CleanupEnabled reports whether restart recovery should clear metadata.
func (c RecoveryConfig) CleanupEnabled() bool {
	return c.RestartCleanup == nil || *c.RestartCleanup
}

// ProbesConfig holds connection settings for the infrastructure probe
// services. A probe with no URL is not registered.
type ProbesConfig struct {
	Redis    redisprobe.Config `yaml:"redis"`
	Database dbprobe.Config    `yaml:"database"`
}
