package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
)

// TransientFailureService raises network timeouts at a configurable rate,
// exercising the retry recovery path.
type TransientFailureService struct {
	service.BaseService
	failureRate float64

	executions int
	successes  int
	failures   int
}

// NewTransientFailureService creates a service that fails with probability
// failureRate on each execution.
func NewTransientFailureService(name string, failureRate float64) *TransientFailureService {
	return &TransientFailureService{
		BaseService: service.NewBaseService(name),
		failureRate: failureRate,
	}
}

// Start transitions the service to running and resets its counters.
func (s *TransientFailureService) Start() error {
	s.SetState(domain.StateRunning)
	s.executions = 0
	s.successes = 0
	s.failures = 0
	s.SetMeta("started_at", time.Now().Unix())
	return nil
}

// Stop transitions the service to stopped.
func (s *TransientFailureService) Stop() error {
	s.SetState(domain.StateStopped)
	s.SetMeta("stopped_at", time.Now().Unix())
	return nil
}

// Execute performs one unit of work, sometimes timing out.
func (s *TransientFailureService) Execute() (any, error) {
	if s.State() != domain.StateRunning {
		return nil, domain.NewServiceError("service is not running", nil)
	}

	s.executions++

	if rand.Float64() < s.failureRate {
		s.failures++
		s.SetMeta("last_failure", time.Now().Unix())
		return nil, domain.NewNetworkTimeout(
			fmt.Sprintf("network timeout on execution #%d", s.executions),
			map[string]any{"execution": s.executions},
		)
	}

	s.successes++
	s.SetMeta("last_execution", time.Now().Unix())
	return fmt.Sprintf("execution #%d completed (success rate: %d/%d)",
		s.executions, s.successes, s.executions), nil
}
