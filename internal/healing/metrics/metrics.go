package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClassificationsTotal tracks fault classifications per service and severity
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healer_classifications_total",
			Help: "Total number of fault classifications",
		},
		[]string{"service", "severity"},
	)

	// EscalationsTotal tracks pattern-based severity escalations
	EscalationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healer_escalations_total",
			Help: "Total number of severity escalations",
		},
		[]string{"service", "from", "to"},
	)

	// RecoveryAttemptsTotal tracks recovery strategy attempts and outcomes
	RecoveryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healer_recovery_attempts_total",
			Help: "Total number of recovery strategy attempts",
		},
		[]string{"service", "strategy", "outcome"},
	)

	// RecoveryDuration tracks how long recovery strategies take
	RecoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "healer_recovery_duration_seconds",
			Help:    "Recovery strategy duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "strategy"},
	)

	// ExecutionsTotal tracks monitored executions per service and result
	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healer_executions_total",
			Help: "Total number of monitored service executions",
		},
		[]string{"service", "result"},
	)

	// GiveUpsTotal tracks services hitting the consecutive-failure ceiling
	GiveUpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healer_give_ups_total",
			Help: "Total number of give-ups after exhausting max failures",
		},
		[]string{"service"},
	)

	// ServicesRegistered tracks the current number of registered services
	ServicesRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "healer_services_registered",
			Help: "Number of currently registered services",
		},
	)
)

// Outcome labels for RecoveryAttemptsTotal.
const (
	OutcomeRecovered = "recovered"
	OutcomeFailed    = "failed"
)
