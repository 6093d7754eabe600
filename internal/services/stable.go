// Package services provides sample ManagedService implementations, each
// exhibiting a distinct failure pattern to exercise the recovery pipeline.
package services

import (
	"fmt"
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
)

// StableService runs reliably without failures.
type StableService struct {
	service.BaseService
	executions int
}

// NewStableService creates a stable service with the given identity.
func NewStableService(name string) *StableService {
	return &StableService{BaseService: service.NewBaseService(name)}
}

// Start transitions the service to running and resets its counters.
func (s *StableService) Start() error {
	s.SetState(domain.StateRunning)
	s.executions = 0
	s.SetMeta("started_at", time.Now().Unix())
	return nil
}

// Stop transitions the service to stopped.
func (s *StableService) Stop() error {
	s.SetState(domain.StateStopped)
	s.SetMeta("stopped_at", time.Now().Unix())
	return nil
}

// Execute performs one unit of work.
func (s *StableService) Execute() (any, error) {
	if s.State() != domain.StateRunning {
		return nil, domain.NewServiceError("service is not running", nil)
	}
	s.executions++
	s.SetMeta("last_execution", time.Now().Unix())
	return fmt.Sprintf("execution #%d completed successfully", s.executions), nil
}
