package recovery

import (
	"context"
	"log/slog"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
)

// Orchestrator selects and chains recovery strategies by severity:
//
//	transient   -> retry, then restart
//	recoverable -> restart, then fallback
//	critical    -> fallback only
//
// Each branch escalates to exactly one secondary strategy and no further.
type Orchestrator struct {
	retry    Strategy
	restart  Strategy
	fallback Strategy
	log      *slog.Logger
}

// NewOrchestrator creates an Orchestrator with default strategy tuning.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		retry:    NewRetryStrategy(DefaultMaxAttempts, DefaultBaseDelay),
		restart:  NewRestartStrategy(true, DefaultRestartDelay),
		fallback: NewFallbackStrategy(nil),
		log:      slog.Default(),
	}
}

// NewOrchestratorWith creates an Orchestrator from explicit strategies,
// used by tests and by callers with custom tuning.
func NewOrchestratorWith(retry, restart, fallback Strategy) *Orchestrator {
	return &Orchestrator{
		retry:    retry,
		restart:  restart,
		fallback: fallback,
		log:      slog.Default(),
	}
}

// Recover applies the strategy chain for the given severity and reports
// whether any strategy succeeded. Severities outside the taxonomy yield
// false unconditionally.
func (o *Orchestrator) Recover(
	ctx context.Context,
	svc service.ManagedService,
	failure error,
	severity domain.Severity,
	op service.Operation,
) bool {
	o.log.Info("Recovering service",
		"service", svc.Name(),
		"severity", severity.String(),
		"error", failure,
	)

	switch severity {
	case domain.SeverityTransient:
		if o.retry.Recover(ctx, svc, failure, op) {
			return true
		}
		o.log.Info("Retry failed, escalating to restart", "service", svc.Name())
		return o.restart.Recover(ctx, svc, failure, nil)

	case domain.SeverityRecoverable:
		if o.restart.Recover(ctx, svc, failure, nil) {
			return true
		}
		o.log.Info("Restart failed, escalating to fallback", "service", svc.Name())
		return o.fallback.Recover(ctx, svc, failure, nil)

	case domain.SeverityCritical:
		o.log.Error("Critical failure, applying fallback only",
			"service", svc.Name(),
			"error", failure,
		)
		return o.fallback.Recover(ctx, svc, failure, nil)

	default:
		// Unreachable with a valid severity.
		return false
	}
}
