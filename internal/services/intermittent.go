package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
)

// Failure probabilities for IntermittentService. Success covers the rest.
const (
	intermittentCriticalProb    = 0.02
	intermittentRecoverableProb = 0.10
	intermittentTransientProb   = 0.15
)

// IntermittentService randomly mixes success with transient, recoverable,
// and (rarely) critical failures. Good for exercising the full
// classification and recovery pipeline end to end.
type IntermittentService struct {
	service.BaseService
	executions int
}

// NewIntermittentService creates an intermittent service.
func NewIntermittentService(name string) *IntermittentService {
	return &IntermittentService{BaseService: service.NewBaseService(name)}
}

// Start transitions the service to running and resets its counter.
func (s *IntermittentService) Start() error {
	s.SetState(domain.StateRunning)
	s.executions = 0
	s.SetMeta("started_at", time.Now().Unix())
	return nil
}

// Stop transitions the service to stopped.
func (s *IntermittentService) Stop() error {
	s.SetState(domain.StateStopped)
	s.SetMeta("stopped_at", time.Now().Unix())
	return nil
}

// Execute performs one unit of work with a randomized outcome.
func (s *IntermittentService) Execute() (any, error) {
	if s.State() != domain.StateRunning {
		return nil, domain.NewServiceError("service is not running", nil)
	}

	s.executions++
	r := rand.Float64()

	switch {
	case r < intermittentCriticalProb:
		return nil, domain.NewSecurityViolation("random critical failure", nil)
	case r < intermittentCriticalProb+intermittentRecoverableProb:
		return nil, domain.NewStateCorruption("random state corruption", nil)
	case r < intermittentCriticalProb+intermittentRecoverableProb+intermittentTransientProb:
		return nil, domain.NewNetworkTimeout("random network timeout", nil)
	}

	s.SetMeta("last_execution", time.Now().Unix())
	return fmt.Sprintf("execution #%d completed", s.executions), nil
}
