package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/control"
	"github.com/soroush-saki/self-healing-framework/internal/core/config"
)

func TestGracefulShutdown(t *testing.T) {
	// Default config with no probes configured, so everything runs offline.
	cfg := config.Default()
	cfg.Server.Port = 18099
	cfg.Monitor.PollInterval = 100 * time.Millisecond

	healer, err := control.NewHealer(cfg)
	if err != nil {
		t.Fatalf("Failed to create healer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := healer.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Let the monitor loops run for a bit
	time.Sleep(500 * time.Millisecond)

	statuses := healer.Monitor().StatusAll()
	if len(statuses) == 0 {
		t.Error("Expected registered services after start")
	}

	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	done := make(chan error, 1)
	go func() {
		done <- healer.Stop(stopCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Error("Healer.Stop did not return within 10s")
	}
}
