package domain

// ServiceState represents the lifecycle state of a managed service.
type ServiceState string

const (
	StateStopped          ServiceState = "stopped"
	StateStarting         ServiceState = "starting" // reserved, not driven by any strategy
	StateRunning          ServiceState = "running"
	StateDegraded         ServiceState = "degraded" // running with reduced functionality
	StateFailing          ServiceState = "failing"  // reserved, not driven by any strategy
	StateStoppedWithError ServiceState = "stopped_with_error"
)

// HealthyState reports whether a state counts as healthy under the
// default health predicate.
func HealthyState(s ServiceState) bool {
	return s == StateRunning || s == StateDegraded
}
