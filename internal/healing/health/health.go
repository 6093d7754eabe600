// Package health aggregates per-service status into a system-wide health
// report and serves it over HTTP.
package health

import (
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
)

// SystemStatus represents the overall health state of the system.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// AlertSeverity labels the urgency of an alert.
type AlertSeverity string

const (
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)

// Alert flags a service needing attention.
type Alert struct {
	Severity AlertSeverity `json:"severity"`
	Service  string        `json:"service"`
	Message  string        `json:"message"`
}

// Summary holds aggregate counts across all services.
type Summary struct {
	TotalServices    int     `json:"total_services"`
	Healthy          int     `json:"healthy"`
	Degraded         int     `json:"degraded"`
	Failed           int     `json:"failed"`
	HealthPercentage float64 `json:"health_percentage"`
}

// Report is the full system health report.
type Report struct {
	Timestamp    time.Time                       `json:"timestamp"`
	SystemHealth SystemStatus                    `json:"system_health"`
	Summary      Summary                         `json:"summary"`
	Services     map[string]domain.ServiceStatus `json:"services"`
	Alerts       []Alert                         `json:"alerts"`
}
