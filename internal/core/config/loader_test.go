package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Monitor.MaxFailures != 5 {
		t.Errorf("expected default max failures 5, got %d", cfg.Monitor.MaxFailures)
	}
	if cfg.Monitor.PollInterval != 5*time.Second {
		t.Errorf("expected default poll interval 5s, got %v", cfg.Monitor.PollInterval)
	}
	if cfg.Recovery.RetryMaxAttempts != 3 {
		t.Errorf("expected default retry attempts 3, got %d", cfg.Recovery.RetryMaxAttempts)
	}
	if cfg.Recovery.RetryBaseDelay != time.Second {
		t.Errorf("expected default base delay 1s, got %v", cfg.Recovery.RetryBaseDelay)
	}
	if cfg.Recovery.RestartDelay != 500*time.Millisecond {
		t.Errorf("expected default restart delay 500ms, got %v", cfg.Recovery.RestartDelay)
	}
	if !cfg.Recovery.CleanupEnabled() {
		t.Error("restart cleanup should default to enabled")
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("PROBE_REDIS_URL", "redis://localhost:6379/0")
	path := writeConfig(t, "probes:\n  redis:\n    url: ${PROBE_REDIS_URL}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Probes.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("expected env-expanded URL, got %q", cfg.Probes.Redis.URL)
	}
}

func TestLoad_CleanupCanBeDisabled(t *testing.T) {
	path := writeConfig(t, "recovery:\n  restart_cleanup: false\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Recovery.CleanupEnabled() {
		t.Error("expected cleanup disabled")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Logging.Level)
	}
}
