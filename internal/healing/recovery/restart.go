package recovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
	"github.com/soroush-saki/self-healing-framework/internal/healing/metrics"
)

// DefaultRestartDelay is the pause between stop and start.
const DefaultRestartDelay = 500 * time.Millisecond

// RestartStrategy stops and restarts the service, optionally clearing its
// metadata first. Suited for recoverable failures where internal state has
// become inconsistent.
type RestartStrategy struct {
	CleanupState bool
	RestartDelay time.Duration
	log          *slog.Logger
}

// NewRestartStrategy creates a RestartStrategy. A non-positive delay falls
// back to the default.
func NewRestartStrategy(cleanupState bool, restartDelay time.Duration) *RestartStrategy {
	if restartDelay <= 0 {
		restartDelay = DefaultRestartDelay
	}
	return &RestartStrategy{
		CleanupState: cleanupState,
		RestartDelay: restartDelay,
		log:          slog.Default(),
	}
}

// Recover stops the service, waits the restart delay, and starts it again.
// Success means the service reports running afterwards. Errors from stop
// or start are swallowed and reported as a false result.
func (s *RestartStrategy) Recover(
	ctx context.Context,
	svc service.ManagedService,
	failure error,
	op service.Operation,
) bool {
	s.log.Info("Restart strategy: starting",
		"service", svc.Name(),
		"cleanup_state", s.CleanupState,
	)

	start := time.Now()
	defer func() {
		metrics.RecoveryDuration.WithLabelValues(svc.Name(), "restart").
			Observe(time.Since(start).Seconds())
	}()

	if err := svc.Stop(); err != nil {
		s.log.Error("Restart strategy: stop failed", "service", svc.Name(), "error", err)
		metrics.RecoveryAttemptsTotal.
			WithLabelValues(svc.Name(), "restart", metrics.OutcomeFailed).Inc()
		return false
	}

	if s.CleanupState {
		svc.ClearMetadata()
		s.log.Debug("Restart strategy: state cleared", "service", svc.Name())
	}

	if !wait(ctx, s.RestartDelay) {
		metrics.RecoveryAttemptsTotal.
			WithLabelValues(svc.Name(), "restart", metrics.OutcomeFailed).Inc()
		return false
	}

	if err := svc.Start(); err != nil {
		s.log.Error("Restart strategy: start failed", "service", svc.Name(), "error", err)
		metrics.RecoveryAttemptsTotal.
			WithLabelValues(svc.Name(), "restart", metrics.OutcomeFailed).Inc()
		return false
	}

	if state := svc.State(); state != domain.StateRunning {
		s.log.Error("Restart strategy: service not running after restart",
			"service", svc.Name(),
			"state", state,
		)
		metrics.RecoveryAttemptsTotal.
			WithLabelValues(svc.Name(), "restart", metrics.OutcomeFailed).Inc()
		return false
	}

	s.log.Info("Restart strategy: service is running again", "service", svc.Name())
	metrics.RecoveryAttemptsTotal.
		WithLabelValues(svc.Name(), "restart", metrics.OutcomeRecovered).Inc()
	return true
}
