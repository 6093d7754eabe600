// Package monitor owns the supervised-service registry and drives the
// execute-detect-recover loop that ties fault detection to recovery.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
	"github.com/soroush-saki/self-healing-framework/internal/healing/detector"
	"github.com/soroush-saki/self-healing-framework/internal/healing/metrics"
	"github.com/soroush-saki/self-healing-framework/internal/healing/recovery"
)

// DefaultMaxFailures is the consecutive-failure ceiling before giving up.
const DefaultMaxFailures = 5

// statusWindow is the trailing history window used for status snapshots.
const statusWindow = 10

var (
	// ErrServiceNotFound is returned when no service matches the identity.
	ErrServiceNotFound = errors.New("service not found")

	// ErrGivenUp is returned when consecutive failures reached the ceiling
	// without a successful recovery.
	ErrGivenUp = errors.New("max consecutive failures reached")
)

// Monitor supervises registered services, classifying their failures and
// applying recovery strategies. One detector and one orchestrator are
// shared across all services.
type Monitor struct {
	mu       sync.Mutex
	services map[string]service.ManagedService

	detector     *detector.Detector
	orchestrator *recovery.Orchestrator

	monitoring  atomic.Bool
	maxFailures int
	log         *slog.Logger
}

// New creates a Monitor with a fresh detector and default orchestrator.
func New() *Monitor {
	return NewWith(detector.New(), recovery.NewOrchestrator())
}

// NewWith creates a Monitor from explicit collaborators.
func NewWith(det *detector.Detector, orch *recovery.Orchestrator) *Monitor {
	m := &Monitor{
		services:     make(map[string]service.ManagedService),
		detector:     det,
		orchestrator: orch,
		maxFailures:  DefaultMaxFailures,
		log:          slog.Default(),
	}
	m.monitoring.Store(true)
	return m
}

// SetMaxFailures overrides the consecutive-failure ceiling used by the
// monitor loop. Values below one are ignored.
func (m *Monitor) SetMaxFailures(n int) {
	if n >= 1 {
		m.maxFailures = n
	}
}

// Detector exposes the shared fault detector, mainly for status readers.
func (m *Monitor) Detector() *detector.Detector {
	return m.detector
}

// Register adds a service to the registry. Registering an identity that
// already exists stops the prior instance before replacing it, so the old
// service does not keep running unsupervised.
func (m *Monitor) Register(svc service.ManagedService) {
	m.mu.Lock()
	prior, replaced := m.services[svc.Name()]
	m.services[svc.Name()] = svc
	m.mu.Unlock()

	if replaced {
		m.log.Warn("Replacing registered service, stopping prior instance",
			"service", svc.Name(),
		)
		if err := prior.Stop(); err != nil {
			m.log.Error("Failed to stop replaced service",
				"service", svc.Name(),
				"error", err,
			)
		}
	} else {
		metrics.ServicesRegistered.Inc()
	}

	m.log.Info("Registered service",
		"service", svc.Name(),
		"state", svc.State(),
	)
}

// Unregister stops the service, purges its failure history, and removes
// it from the registry. Unknown identities are ignored.
func (m *Monitor) Unregister(name string) {
	m.mu.Lock()
	svc, ok := m.services[name]
	if ok {
		delete(m.services, name)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	if err := svc.Stop(); err != nil {
		m.log.Error("Failed to stop service during unregister",
			"service", name,
			"error", err,
		)
	}
	m.detector.ClearHistory(name)
	metrics.ServicesRegistered.Dec()
	m.log.Info("Unregistered service", "service", name)
}

// StartService starts a registered service.
func (m *Monitor) StartService(name string) error {
	svc, ok := m.lookup(name)
	if !ok {
		m.log.Error("Cannot start unknown service", "service", name)
		return ErrServiceNotFound
	}

	if err := svc.Start(); err != nil {
		m.log.Error("Failed to start service", "service", name, "error", err)
		return err
	}

	m.log.Info("Started service", "service", name)
	return nil
}

// StopService stops a registered service.
func (m *Monitor) StopService(name string) error {
	svc, ok := m.lookup(name)
	if !ok {
		return ErrServiceNotFound
	}

	if err := svc.Stop(); err != nil {
		m.log.Error("Failed to stop service", "service", name, "error", err)
		return err
	}

	m.log.Info("Stopped service", "service", name)
	return nil
}

// ExecuteWithMonitoring executes the service with fault monitoring and
// recovery. maxFailures is the consecutive-failure ceiling; values below
// one fall back to the default.
//
// A successful recovery does not surface the strategy's probe result: it
// resets the failure counter and the loop re-invokes Execute fresh, so
// recovery is validated by the next raw execution. Only a failure-free
// Execute call produces the returned result.
func (m *Monitor) ExecuteWithMonitoring(
	ctx context.Context,
	name string,
	maxFailures int,
) (any, error) {
	svc, ok := m.lookup(name)
	if !ok {
		m.log.Error("Cannot execute unknown service", "service", name)
		return nil, ErrServiceNotFound
	}

	if maxFailures < 1 {
		maxFailures = DefaultMaxFailures
	}

	consecutiveFailures := 0

	for consecutiveFailures < maxFailures {
		result, err := svc.Execute()
		if err == nil {
			if consecutiveFailures > 0 {
				m.log.Info("Service recovered",
					"service", name,
					"failures", consecutiveFailures,
				)
			}
			metrics.ExecutionsTotal.WithLabelValues(name, "success").Inc()
			return result, nil
		}

		consecutiveFailures++
		metrics.ExecutionsTotal.WithLabelValues(name, "failure").Inc()
		m.log.Error("Service execution failed",
			"service", name,
			"error", err,
			"consecutive_failures", consecutiveFailures,
		)

		severity := m.detector.Classify(err, name)

		recovered := m.orchestrator.Recover(ctx, svc, err, severity, svc.Execute)
		if recovered {
			m.log.Info("Recovery succeeded", "service", name)
			consecutiveFailures = 0
			continue
		}

		m.log.Error("Recovery failed",
			"service", name,
			"consecutive_failures", consecutiveFailures,
		)
		if consecutiveFailures >= maxFailures {
			m.log.Error("Max failures reached, giving up",
				"service", name,
				"max_failures", maxFailures,
			)
			svc.SetState(domain.StateStoppedWithError)
			metrics.GiveUpsTotal.WithLabelValues(name).Inc()
			return nil, ErrGivenUp
		}
	}

	return nil, ErrGivenUp
}

// MonitorLoop repeatedly executes the service with monitoring, sleeping
// interval between iterations. A positive duration bounds the total run
// time. Cancellation is cooperative: the monitor-owned stop flag and the
// context are checked once per iteration boundary, never mid-recovery.
func (m *Monitor) MonitorLoop(
	ctx context.Context,
	name string,
	interval time.Duration,
	duration time.Duration,
) {
	m.log.Info("Starting monitor loop",
		"service", name,
		"interval", interval,
		"duration", duration,
	)

	start := time.Now()

	for m.monitoring.Load() {
		if ctx.Err() != nil {
			break
		}
		if duration > 0 && time.Since(start) >= duration {
			m.log.Info("Monitoring duration reached", "service", name)
			break
		}

		if _, err := m.ExecuteWithMonitoring(ctx, name, m.maxFailures); err != nil &&
			errors.Is(err, ErrServiceNotFound) {
			break
		}

		select {
		case <-ctx.Done():
		case <-time.After(interval):
		}
	}

	m.log.Info("Monitor loop ended", "service", name)
}

// StopMonitoring signals every monitor loop on this instance to stop at
// its next iteration boundary. The flag is sticky: loops started after
// the call exit immediately without executing.
func (m *Monitor) StopMonitoring() {
	m.monitoring.Store(false)
	m.log.Info("Monitoring stopped")
}

// Status returns a read-only snapshot for one service.
func (m *Monitor) Status(name string) (domain.ServiceStatus, error) {
	svc, ok := m.lookup(name)
	if !ok {
		return domain.ServiceStatus{}, ErrServiceNotFound
	}

	return domain.ServiceStatus{
		Name:           name,
		State:          svc.State(),
		Healthy:        svc.Healthy(),
		RecentFailures: m.detector.RecentFailureCount(name, statusWindow),
		Metadata:       svc.Metadata(),
	}, nil
}

// StatusAll returns snapshots for every registered service.
func (m *Monitor) StatusAll() map[string]domain.ServiceStatus {
	m.mu.Lock()
	names := make([]string, 0, len(m.services))
	for name := range m.services {
		names = append(names, name)
	}
	m.mu.Unlock()

	statuses := make(map[string]domain.ServiceStatus, len(names))
	for _, name := range names {
		if status, err := m.Status(name); err == nil {
			statuses[name] = status
		}
	}
	return statuses
}

func (m *Monitor) lookup(name string) (service.ManagedService, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	svc, ok := m.services[name]
	return svc, ok
}
