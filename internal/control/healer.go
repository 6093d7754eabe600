// Package control wires the monitor, sample services, and health server
// into a runnable application.
package control

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/soroush-saki/self-healing-framework/internal/core/config"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
	"github.com/soroush-saki/self-healing-framework/internal/healing/detector"
	"github.com/soroush-saki/self-healing-framework/internal/healing/health"
	"github.com/soroush-saki/self-healing-framework/internal/healing/monitor"
	"github.com/soroush-saki/self-healing-framework/internal/healing/recovery"
	"github.com/soroush-saki/self-healing-framework/internal/services"
	"github.com/soroush-saki/self-healing-framework/internal/services/dbprobe"
	"github.com/soroush-saki/self-healing-framework/internal/services/redisprobe"
)

// Healer is the main application struct managing the supervision lifecycle.
type Healer struct {
	cfg          *config.AppConfig
	monitor      *monitor.Monitor
	healthServer *health.Server
	serviceNames []string
	log          *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHealer creates a Healer with all dependencies initialized. The demo
// service pack is always registered; infrastructure probes join when their
// connection URLs are configured.
func NewHealer(cfg *config.AppConfig) (*Healer, error) {
	orch := recovery.NewOrchestratorWith(
		recovery.NewRetryStrategy(cfg.Recovery.RetryMaxAttempts, cfg.Recovery.RetryBaseDelay),
		recovery.NewRestartStrategy(cfg.Recovery.CleanupEnabled(), cfg.Recovery.RestartDelay),
		recovery.NewFallbackStrategy(nil),
	)
	mon := monitor.NewWith(detector.New(), orch)
	mon.SetMaxFailures(cfg.Monitor.MaxFailures)

	h := &Healer{
		cfg:     cfg,
		monitor: mon,
		log:     slog.Default(),
	}

	h.register(services.NewStableService("stable"))
	h.register(services.NewTransientFailureService("flaky-network", 0.3))
	h.register(services.NewRecoverableFailureService("corruptible", 5))
	h.register(services.NewIntermittentService("intermittent"))

	if cfg.Probes.Redis.URL != "" {
		h.register(redisprobe.New("redis-probe", cfg.Probes.Redis))
	}
	if cfg.Probes.Database.URL != "" {
		h.register(dbprobe.New("db-probe", cfg.Probes.Database))
	}

	h.healthServer = health.NewServer(mon, cfg.Server.Port)

	return h, nil
}

// Monitor exposes the underlying monitor.
func (h *Healer) Monitor() *monitor.Monitor {
	return h.monitor
}

// Start starts all services, the health server, and one monitor loop per
// service. Services that fail to start are left registered so their status
// stays visible; the monitor loop will keep trying them.
func (h *Healer) Start(ctx context.Context) error {
	ctx, h.cancel = context.WithCancel(ctx)

	for _, name := range h.serviceNames {
		if err := h.monitor.StartService(name); err != nil {
			h.log.Warn("Service failed to start, supervision continues",
				"service", name,
				"error", err,
			)
		}
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if err := h.healthServer.Start(); err != nil && err != http.ErrServerClosed {
			h.log.Error("Health server stopped", "error", err)
		}
	}()
	h.log.Info("Health server listening", "port", h.cfg.Server.Port)

	for _, name := range h.serviceNames {
		h.wg.Add(1)
		go func(name string) {
			defer h.wg.Done()
			h.monitor.MonitorLoop(ctx, name, h.cfg.Monitor.PollInterval, 0)
		}(name)
	}

	return nil
}

// Stop signals the monitor loops, shuts down the health server, and stops
// every registered service.
func (h *Healer) Stop(ctx context.Context) error {
	h.monitor.StopMonitoring()
	if h.cancel != nil {
		h.cancel()
	}

	if err := h.healthServer.Stop(ctx); err != nil {
		h.log.Error("Failed to stop health server", "error", err)
	}

	for _, name := range h.serviceNames {
		h.monitor.Unregister(name)
	}

	h.wg.Wait()
	return nil
}

func (h *Healer) register(svc service.ManagedService) {
	h.monitor.Register(svc)
	h.serviceNames = append(h.serviceNames, svc.Name())
}
