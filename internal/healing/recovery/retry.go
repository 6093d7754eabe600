package recovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
	"github.com/soroush-saki/self-healing-framework/internal/healing/metrics"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1 * time.Second
)

// RetryStrategy re-invokes the failed operation with exponential backoff.
// Suited for transient failures such as network timeouts.
//
// Attempt 1 runs immediately; attempt k > 1 waits BaseDelay * 2^(k-2), so
// the delays run BaseDelay, 2*BaseDelay, 4*BaseDelay, and so on.
type RetryStrategy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	log         *slog.Logger
}

// NewRetryStrategy creates a RetryStrategy with the given limits.
// Non-positive values fall back to the defaults.
func NewRetryStrategy(maxAttempts int, baseDelay time.Duration) *RetryStrategy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	return &RetryStrategy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		log:         slog.Default(),
	}
}

// Recover retries the operation until it succeeds or attempts run out.
// The operation's result is discarded; only success or failure is
// reported. A nil operation fails immediately.
func (s *RetryStrategy) Recover(
	ctx context.Context,
	svc service.ManagedService,
	failure error,
	op service.Operation,
) bool {
	if op == nil {
		s.log.Error("Retry strategy requires an operation callback", "service", svc.Name())
		return false
	}

	s.log.Info("Retry strategy: starting",
		"service", svc.Name(),
		"max_attempts", s.MaxAttempts,
	)

	start := time.Now()
	attempt := 0

	backoff := retry.WithMaxRetries(uint64(s.MaxAttempts-1), retry.NewExponential(s.BaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if _, execErr := op(); execErr != nil {
			s.log.Warn("Retry attempt failed",
				"service", svc.Name(),
				"attempt", attempt,
				"error", execErr,
			)
			return retry.RetryableError(execErr)
		}
		return nil
	})

	metrics.RecoveryDuration.WithLabelValues(svc.Name(), "retry").
		Observe(time.Since(start).Seconds())

	if err != nil {
		s.log.Error("Retry strategy: all attempts exhausted",
			"service", svc.Name(),
			"attempts", attempt,
			"error", err,
		)
		metrics.RecoveryAttemptsTotal.
			WithLabelValues(svc.Name(), "retry", metrics.OutcomeFailed).Inc()
		return false
	}

	s.log.Info("Retry strategy: succeeded", "service", svc.Name(), "attempt", attempt)
	metrics.RecoveryAttemptsTotal.
		WithLabelValues(svc.Name(), "retry", metrics.OutcomeRecovered).Inc()
	return true
}
