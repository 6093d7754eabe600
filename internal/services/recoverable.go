package services

import (
	"fmt"
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
)

// RecoverableFailureService corrupts its state after a fixed number of
// operations, exercising the restart recovery path.
type RecoverableFailureService struct {
	service.BaseService
	corruptionThreshold int

	executions      int
	opsSinceRestart int
	restarts        int
}

// NewRecoverableFailureService creates a service whose state corrupts
// after corruptionThreshold operations since the last restart.
func NewRecoverableFailureService(name string, corruptionThreshold int) *RecoverableFailureService {
	return &RecoverableFailureService{
		BaseService:         service.NewBaseService(name),
		corruptionThreshold: corruptionThreshold,
	}
}

// Start transitions the service to running and resets the per-run counter.
func (s *RecoverableFailureService) Start() error {
	s.SetState(domain.StateRunning)
	s.opsSinceRestart = 0
	s.restarts++
	s.SetMeta("started_at", time.Now().Unix())
	s.SetMeta("restart_count", s.restarts)
	return nil
}

// Stop transitions the service to stopped.
func (s *RecoverableFailureService) Stop() error {
	s.SetState(domain.StateStopped)
	s.SetMeta("stopped_at", time.Now().Unix())
	return nil
}

// Execute performs one unit of work, corrupting past the threshold.
func (s *RecoverableFailureService) Execute() (any, error) {
	if s.State() != domain.StateRunning {
		return nil, domain.NewServiceError("service is not running", nil)
	}

	s.executions++
	s.opsSinceRestart++

	if s.opsSinceRestart >= s.corruptionThreshold {
		s.SetMeta("last_corruption", time.Now().Unix())
		return nil, domain.NewStateCorruption(
			fmt.Sprintf("state corrupted after %d operations", s.opsSinceRestart),
			map[string]any{"operations": s.opsSinceRestart},
		)
	}

	s.SetMeta("last_execution", time.Now().Unix())
	return fmt.Sprintf("execution #%d (ops since restart: %d)",
		s.executions, s.opsSinceRestart), nil
}
