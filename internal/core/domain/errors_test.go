package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestServiceError_SeverityByKind(t *testing.T) {
	cases := []struct {
		err  *ServiceError
		kind Kind
		want Severity
	}{
		{NewNetworkTimeout("t", nil), KindNetworkTimeout, SeverityTransient},
		{NewResourceUnavailable("t", nil), KindResourceUnavailable, SeverityTransient},
		{NewConfiguration("t", nil), KindConfiguration, SeverityRecoverable},
		{NewDependencyFailure("t", nil), KindDependencyFailure, SeverityRecoverable},
		{NewStateCorruption("t", nil), KindStateCorruption, SeverityRecoverable},
		{NewSecurityViolation("t", nil), KindSecurityViolation, SeverityCritical},
		{NewDataCorruption("t", nil), KindDataCorruption, SeverityCritical},
		{NewServiceError("t", nil), KindGeneric, SeverityRecoverable},
	}

	for _, tc := range cases {
		if tc.err.Kind != tc.kind {
			t.Errorf("expected kind %s, got %s", tc.kind, tc.err.Kind)
		}
		if tc.err.Severity != tc.want {
			t.Errorf("kind %s: expected severity %s, got %s", tc.kind, tc.want, tc.err.Severity)
		}
	}
}

func TestServiceError_Rendering(t *testing.T) {
	err := NewNetworkTimeout("connection to upstream timed out", nil)
	if got := err.Error(); got != "[TRANSIENT] connection to upstream timed out" {
		t.Errorf("unexpected rendering: %q", got)
	}
}

func TestServiceError_UnwrapsThroughWrapping(t *testing.T) {
	inner := NewDataCorruption("checksum mismatch", map[string]any{"block": 7})
	wrapped := fmt.Errorf("verify: %w", inner)

	var svcErr *ServiceError
	if !errors.As(wrapped, &svcErr) {
		t.Fatal("expected errors.As to find the structured failure")
	}
	if svcErr.Severity != SeverityCritical {
		t.Errorf("expected critical, got %s", svcErr.Severity)
	}
	if svcErr.Metadata["block"] != 7 {
		t.Errorf("metadata lost through wrapping: %v", svcErr.Metadata)
	}
}

func TestSeverity_String(t *testing.T) {
	if SeverityTransient.String() != "transient" ||
		SeverityRecoverable.String() != "recoverable" ||
		SeverityCritical.String() != "critical" {
		t.Error("unexpected severity labels")
	}
	if Severity(42).String() != "unknown" {
		t.Error("out-of-range severity should render as unknown")
	}
	if Severity(42).Valid() {
		t.Error("out-of-range severity should not be valid")
	}
}

func TestHealthyState(t *testing.T) {
	healthy := []ServiceState{StateRunning, StateDegraded}
	unhealthy := []ServiceState{StateStopped, StateStarting, StateFailing, StateStoppedWithError}

	for _, s := range healthy {
		if !HealthyState(s) {
			t.Errorf("%s should be healthy", s)
		}
	}
	for _, s := range unhealthy {
		if HealthyState(s) {
			t.Errorf("%s should not be healthy", s)
		}
	}
}
