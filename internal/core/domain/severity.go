package domain

// Severity classifies a failure by how it should be recovered.
// The order matters: escalation only ever moves one step towards critical.
type Severity int

const (
	// SeverityTransient marks failures likely to resolve on retry.
	SeverityTransient Severity = iota

	// SeverityRecoverable marks failures that need intervention (restart)
	// but are expected to clear afterwards.
	SeverityRecoverable

	// SeverityCritical marks failures where only degraded operation remains.
	SeverityCritical
)

// String returns the lowercase severity label used in logs and reports.
func (s Severity) String() string {
	switch s {
	case SeverityTransient:
		return "transient"
	case SeverityRecoverable:
		return "recoverable"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the three defined severities.
func (s Severity) Valid() bool {
	return s >= SeverityTransient && s <= SeverityCritical
}
