package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no file is provided.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Monitor.MaxFailures == 0 {
		cfg.Monitor.MaxFailures = 5
	}
	if cfg.Monitor.PollInterval == 0 {
		cfg.Monitor.PollInterval = 5 * time.Second
	}
	if cfg.Recovery.RetryMaxAttempts == 0 {
		cfg.Recovery.RetryMaxAttempts = 3
	}
	if cfg.Recovery.RetryBaseDelay == 0 {
		cfg.Recovery.RetryBaseDelay = 1 * time.Second
	}
	if cfg.Recovery.RestartDelay == 0 {
		cfg.Recovery.RestartDelay = 500 * time.Millisecond
	}
}
