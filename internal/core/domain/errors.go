package domain

import (
	"fmt"
	"strings"
)

// Kind identifies the concrete failure variant carried by a ServiceError.
// Each kind fixes its severity at construction time.
type Kind string

const (
	// Transient kinds
	KindNetworkTimeout      Kind = "network_timeout"
	KindResourceUnavailable Kind = "resource_unavailable"

	// Recoverable kinds
	KindConfiguration     Kind = "configuration"
	KindDependencyFailure Kind = "dependency_failure"
	KindStateCorruption   Kind = "state_corruption"

	// Critical kinds
	KindSecurityViolation Kind = "security_violation"
	KindDataCorruption    Kind = "data_corruption"

	// KindGeneric is used when no specific variant applies.
	KindGeneric Kind = "generic"
)

// ServiceError is a structured failure raised by a managed service.
// It carries a fixed severity and arbitrary contextual metadata.
type ServiceError struct {
	Message  string
	Kind     Kind
	Severity Severity
	Metadata map[string]any
}

// Error renders the failure as "[SEVERITY] message".
func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(e.Severity.String()), e.Message)
}

// NewServiceError creates a generic failure. Severity defaults to
// recoverable, the safe choice for unclassified errors.
func NewServiceError(message string, metadata map[string]any) *ServiceError {
	return newError(message, KindGeneric, SeverityRecoverable, metadata)
}

// NewNetworkTimeout reports a network request timeout.
func NewNetworkTimeout(message string, metadata map[string]any) *ServiceError {
	return newError(message, KindNetworkTimeout, SeverityTransient, metadata)
}

// NewResourceUnavailable reports a required resource being temporarily gone.
func NewResourceUnavailable(message string, metadata map[string]any) *ServiceError {
	return newError(message, KindResourceUnavailable, SeverityTransient, metadata)
}

// NewConfiguration reports invalid or missing configuration.
func NewConfiguration(message string, metadata map[string]any) *ServiceError {
	return newError(message, KindConfiguration, SeverityRecoverable, metadata)
}

// NewDependencyFailure reports an unavailable external dependency.
func NewDependencyFailure(message string, metadata map[string]any) *ServiceError {
	return newError(message, KindDependencyFailure, SeverityRecoverable, metadata)
}

// NewStateCorruption reports corrupted service state.
func NewStateCorruption(message string, metadata map[string]any) *ServiceError {
	return newError(message, KindStateCorruption, SeverityRecoverable, metadata)
}

// NewSecurityViolation reports a violated security constraint.
func NewSecurityViolation(message string, metadata map[string]any) *ServiceError {
	return newError(message, KindSecurityViolation, SeverityCritical, metadata)
}

// NewDataCorruption reports compromised data integrity.
func NewDataCorruption(message string, metadata map[string]any) *ServiceError {
	return newError(message, KindDataCorruption, SeverityCritical, metadata)
}

func newError(message string, kind Kind, severity Severity, metadata map[string]any) *ServiceError {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &ServiceError{
		Message:  message,
		Kind:     kind,
		Severity: severity,
		Metadata: metadata,
	}
}
