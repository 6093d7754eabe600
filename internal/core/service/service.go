// Package service defines the contract every supervised unit must satisfy
// to be compatible with the self-healing framework.
package service

import (
	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
)

// Operation is a single re-invocable unit of work, typically a service's
// Execute method. Recovery strategies use it to probe for recovery.
type Operation func() (any, error)

// ManagedService is implemented by every service the monitor supervises.
// The framework calls Execute repeatedly and applies recovery strategies
// when it fails.
type ManagedService interface {
	// Name returns the unique service identity.
	Name() string

	// Start initializes the service and transitions it to running.
	Start() error

	// Stop gracefully stops the service and releases its resources.
	Stop() error

	// Execute performs one unit of work and returns its result.
	Execute() (any, error)

	// State returns the current lifecycle state.
	State() domain.ServiceState

	// SetState forces the lifecycle state. Used by recovery strategies
	// and the monitor's give-up path.
	SetState(domain.ServiceState)

	// Metadata returns a copy of the service's auxiliary metadata.
	Metadata() map[string]any

	// SetMeta stores one metadata key.
	SetMeta(key string, value any)

	// ClearMetadata drops all metadata. Restart recovery uses this when
	// state cleanup is enabled.
	ClearMetadata()

	// Healthy reports whether the service is considered healthy.
	// The default predicate is running or degraded.
	Healthy() bool
}
