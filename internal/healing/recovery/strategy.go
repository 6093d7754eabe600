// Package recovery implements the recovery strategies applied to failing
// services and the orchestrator that chains them by severity.
package recovery

import (
	"context"
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/core/service"
)

// Strategy attempts to restore a managed service after a failure.
//
// Strategies never return errors: any internal failure to recover is
// reported as false. Side effects are limited to the service's own state
// and metadata.
type Strategy interface {
	// Recover attempts recovery and reports success. op is the callback a
	// strategy may re-invoke to probe for recovery; strategies that do not
	// need it ignore it.
	Recover(ctx context.Context, svc service.ManagedService, failure error, op service.Operation) bool
}

// wait blocks for d or until ctx is cancelled. It reports whether the full
// delay elapsed.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
