package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
)

// alertFailureThreshold is the recent-failure count that raises a warning
// alert even when the service is still healthy.
const alertFailureThreshold = 5

// Reporter builds health reports from monitor status snapshots. It only
// reads the snapshots it is given and never mutates them.
type Reporter struct {
	lastReportAt time.Time
}

// NewReporter creates a Reporter.
func NewReporter() *Reporter {
	return &Reporter{lastReportAt: time.Now().UTC()}
}

// Generate builds a report from the statuses returned by the monitor.
func (r *Reporter) Generate(statuses map[string]domain.ServiceStatus) Report {
	now := time.Now().UTC()

	total := len(statuses)
	healthy, degraded, failed := 0, 0, 0
	for _, s := range statuses {
		if s.Healthy {
			healthy++
		}
		switch s.State {
		case domain.StateDegraded:
			degraded++
		case domain.StateFailing, domain.StateStoppedWithError:
			failed++
		}
	}

	summary := Summary{
		TotalServices: total,
		Healthy:       healthy,
		Degraded:      degraded,
		Failed:        failed,
	}
	if total > 0 {
		summary.HealthPercentage = float64(healthy) / float64(total) * 100
	}

	report := Report{
		Timestamp:    now,
		SystemHealth: systemHealth(total, healthy, degraded, failed),
		Summary:      summary,
		Services:     statuses,
		Alerts:       generateAlerts(statuses),
	}

	r.lastReportAt = now
	return report
}

// FormatText renders a report as a human-readable dashboard block.
func (r *Reporter) FormatText(report Report) string {
	var b strings.Builder
	sep := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\n", sep)
	fmt.Fprintf(&b, "SYSTEM HEALTH REPORT\n")
	fmt.Fprintf(&b, "%s\n", sep)
	fmt.Fprintf(&b, "Timestamp:     %s\n", report.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "System Health: %s\n\n", strings.ToUpper(string(report.SystemHealth)))

	s := report.Summary
	fmt.Fprintf(&b, "SUMMARY:\n")
	fmt.Fprintf(&b, "  Total Services : %d\n", s.TotalServices)
	fmt.Fprintf(&b, "  Healthy        : %d\n", s.Healthy)
	fmt.Fprintf(&b, "  Degraded       : %d\n", s.Degraded)
	fmt.Fprintf(&b, "  Failed         : %d\n", s.Failed)
	fmt.Fprintf(&b, "  Health         : %.1f%%\n\n", s.HealthPercentage)

	if len(report.Alerts) > 0 {
		fmt.Fprintf(&b, "ALERTS:\n")
		for _, a := range report.Alerts {
			fmt.Fprintf(&b, "  [%s] %s\n", strings.ToUpper(string(a.Severity)), a.Message)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "SERVICES:\n")
	for name, status := range report.Services {
		icon := "x"
		if status.Healthy {
			icon = "ok"
		}
		fmt.Fprintf(&b, "  [%s] %s: %s (recent failures: %d)\n",
			icon, name, status.State, status.RecentFailures)
	}

	fmt.Fprintf(&b, "%s", sep)
	return b.String()
}

// systemHealth aggregates counts into one signal: any failed service is
// critical, any degradation (or unhealthy service) is degraded.
func systemHealth(total, healthy, degraded, failed int) SystemStatus {
	if total == 0 {
		return StatusHealthy
	}
	if failed > 0 {
		return StatusCritical
	}
	if degraded > 0 || healthy < total {
		return StatusDegraded
	}
	return StatusHealthy
}

func generateAlerts(statuses map[string]domain.ServiceStatus) []Alert {
	alerts := make([]Alert, 0)

	for name, status := range statuses {
		switch status.State {
		case domain.StateFailing, domain.StateStoppedWithError:
			alerts = append(alerts, Alert{
				Severity: AlertCritical,
				Service:  name,
				Message:  fmt.Sprintf("Service %q has failed (state=%s)", name, status.State),
			})
		case domain.StateDegraded:
			alerts = append(alerts, Alert{
				Severity: AlertWarning,
				Service:  name,
				Message:  fmt.Sprintf("Service %q is running in degraded mode", name),
			})
		}

		if status.RecentFailures >= alertFailureThreshold {
			alerts = append(alerts, Alert{
				Severity: AlertWarning,
				Service:  name,
				Message: fmt.Sprintf("Service %q has %d recent failures",
					name, status.RecentFailures),
			})
		}
	}

	return alerts
}
