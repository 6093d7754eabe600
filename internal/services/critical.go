package services

import (
	"fmt"
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
)

// CriticalFailureService raises a critical failure after a fixed number of
// executions, exercising the fallback path and degraded mode.
type CriticalFailureService struct {
	service.BaseService
	failAt int

	executions int
}

// NewCriticalFailureService creates a service whose failAt-th execution
// raises a critical failure.
func NewCriticalFailureService(name string, failAt int) *CriticalFailureService {
	return &CriticalFailureService{
		BaseService: service.NewBaseService(name),
		failAt:      failAt,
	}
}

// Start transitions the service to running and resets its counter.
func (s *CriticalFailureService) Start() error {
	s.SetState(domain.StateRunning)
	s.executions = 0
	s.SetMeta("started_at", time.Now().Unix())
	return nil
}

// Stop transitions the service to stopped.
func (s *CriticalFailureService) Stop() error {
	s.SetState(domain.StateStopped)
	s.SetMeta("stopped_at", time.Now().Unix())
	return nil
}

// Execute performs one unit of work; in degraded mode only a limited
// result is available.
func (s *CriticalFailureService) Execute() (any, error) {
	if s.State() == domain.StateDegraded {
		return "running in degraded mode, limited functionality available", nil
	}
	if s.State() != domain.StateRunning {
		return nil, domain.NewServiceError("service is not running", nil)
	}

	s.executions++

	if s.executions >= s.failAt {
		s.SetMeta("critical_failure_time", time.Now().Unix())
		return nil, domain.NewDataCorruption(
			fmt.Sprintf("critical system failure at execution #%d", s.executions),
			map[string]any{"execution": s.executions},
		)
	}

	s.SetMeta("last_execution", time.Now().Unix())
	return fmt.Sprintf("execution #%d of %d", s.executions, s.failAt), nil
}
