package recovery

import (
	"context"
	"log/slog"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
	"github.com/soroush-saki/self-healing-framework/internal/healing/metrics"
)

// Hook runs after a service is degraded, letting callers switch the
// service onto a limited-functionality path.
type Hook func(svc service.ManagedService) error

// FallbackStrategy degrades the service instead of restoring it. Used when
// full recovery is not possible but partial operation beats total
// unavailability. Degraded is terminal for the failure being handled.
type FallbackStrategy struct {
	Hook Hook
	log  *slog.Logger
}

// NewFallbackStrategy creates a FallbackStrategy with an optional hook.
func NewFallbackStrategy(hook Hook) *FallbackStrategy {
	return &FallbackStrategy{
		Hook: hook,
		log:  slog.Default(),
	}
}

// Recover forces the service into the degraded state and invokes the hook
// once if one is configured. A hook error yields a false result; the
// service stays degraded either way.
func (s *FallbackStrategy) Recover(
	ctx context.Context,
	svc service.ManagedService,
	failure error,
	op service.Operation,
) bool {
	s.log.Info("Fallback strategy: degrading service", "service", svc.Name())

	svc.SetState(domain.StateDegraded)

	if s.Hook != nil {
		if err := s.Hook(svc); err != nil {
			s.log.Error("Fallback strategy: hook failed",
				"service", svc.Name(),
				"error", err,
			)
			metrics.RecoveryAttemptsTotal.
				WithLabelValues(svc.Name(), "fallback", metrics.OutcomeFailed).Inc()
			return false
		}
	}

	s.log.Info("Fallback strategy: service is now degraded", "service", svc.Name())
	metrics.RecoveryAttemptsTotal.
		WithLabelValues(svc.Name(), "fallback", metrics.OutcomeRecovered).Inc()
	return true
}
