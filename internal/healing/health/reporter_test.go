package health

import (
	"strings"
	"testing"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
)

func status(state domain.ServiceState, failures int) domain.ServiceStatus {
	return domain.ServiceStatus{
		State:          state,
		Healthy:        domain.HealthyState(state),
		RecentFailures: failures,
		Metadata:       map[string]any{},
	}
}

func TestGenerate_AllHealthy(t *testing.T) {
	r := NewReporter()

	report := r.Generate(map[string]domain.ServiceStatus{
		"a": status(domain.StateRunning, 0),
		"b": status(domain.StateRunning, 0),
	})

	if report.SystemHealth != StatusHealthy {
		t.Errorf("expected healthy, got %s", report.SystemHealth)
	}
	if report.Summary.Healthy != 2 || report.Summary.TotalServices != 2 {
		t.Errorf("unexpected summary: %+v", report.Summary)
	}
	if report.Summary.HealthPercentage != 100 {
		t.Errorf("expected 100%%, got %.1f", report.Summary.HealthPercentage)
	}
	if len(report.Alerts) != 0 {
		t.Errorf("expected no alerts, got %v", report.Alerts)
	}
}

func TestGenerate_DegradedService(t *testing.T) {
	r := NewReporter()

	report := r.Generate(map[string]domain.ServiceStatus{
		"a": status(domain.StateRunning, 0),
		"b": status(domain.StateDegraded, 0),
	})

	if report.SystemHealth != StatusDegraded {
		t.Errorf("expected degraded, got %s", report.SystemHealth)
	}
	if len(report.Alerts) != 1 || report.Alerts[0].Severity != AlertWarning {
		t.Errorf("expected one warning alert, got %v", report.Alerts)
	}
}

func TestGenerate_FailedServiceIsCritical(t *testing.T) {
	r := NewReporter()

	report := r.Generate(map[string]domain.ServiceStatus{
		"a": status(domain.StateRunning, 0),
		"b": status(domain.StateStoppedWithError, 5),
	})

	if report.SystemHealth != StatusCritical {
		t.Errorf("expected critical, got %s", report.SystemHealth)
	}

	// Failed state plus the failure-count threshold both alert.
	critical, warning := 0, 0
	for _, a := range report.Alerts {
		switch a.Severity {
		case AlertCritical:
			critical++
		case AlertWarning:
			warning++
		}
	}
	if critical != 1 || warning != 1 {
		t.Errorf("expected 1 critical and 1 warning alert, got %v", report.Alerts)
	}
}

func TestGenerate_StoppedServiceDegradesSystem(t *testing.T) {
	r := NewReporter()

	// Stopped is not failed, but it is not healthy either.
	report := r.Generate(map[string]domain.ServiceStatus{
		"a": status(domain.StateRunning, 0),
		"b": status(domain.StateStopped, 0),
	})

	if report.SystemHealth != StatusDegraded {
		t.Errorf("expected degraded, got %s", report.SystemHealth)
	}
}

func TestGenerate_Empty(t *testing.T) {
	r := NewReporter()

	report := r.Generate(map[string]domain.ServiceStatus{})
	if report.SystemHealth != StatusHealthy {
		t.Errorf("expected healthy for empty registry, got %s", report.SystemHealth)
	}
	if report.Summary.HealthPercentage != 0 {
		t.Errorf("expected 0%% for empty registry, got %.1f", report.Summary.HealthPercentage)
	}
}

func TestFormatText(t *testing.T) {
	r := NewReporter()

	report := r.Generate(map[string]domain.ServiceStatus{
		"api":    status(domain.StateRunning, 0),
		"broken": status(domain.StateStoppedWithError, 6),
	})

	text := r.FormatText(report)

	for _, want := range []string{
		"SYSTEM HEALTH REPORT",
		"System Health: CRITICAL",
		"Total Services : 2",
		"ALERTS:",
		"api",
		"broken",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report text missing %q:\n%s", want, text)
		}
	}
}
