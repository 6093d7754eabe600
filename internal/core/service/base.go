package service

import (
	"sync"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
)

// BaseService provides the name, state, and metadata plumbing shared by
// concrete services. Embedders implement Start, Stop, and Execute.
//
// The monitor runs a single synchronous execution path, but status
// snapshots may be read from the health server goroutine, so state and
// metadata access is guarded by a mutex.
type BaseService struct {
	name string

	mu       sync.RWMutex
	state    domain.ServiceState
	metadata map[string]any
}

// NewBaseService creates a BaseService in the stopped state.
func NewBaseService(name string) BaseService {
	return BaseService{
		name:     name,
		state:    domain.StateStopped,
		metadata: make(map[string]any),
	}
}

// Name returns the service identity.
func (s *BaseService) Name() string {
	return s.name
}

// State returns the current lifecycle state.
func (s *BaseService) State() domain.ServiceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetState forces the lifecycle state.
func (s *BaseService) SetState(state domain.ServiceState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Metadata returns a copy of the metadata map.
func (s *BaseService) Metadata() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.metadata))
	for k, v := range s.metadata {
		out[k] = v
	}
	return out
}

// SetMeta stores one metadata key.
func (s *BaseService) SetMeta(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[key] = value
}

// GetMeta reads one metadata key.
func (s *BaseService) GetMeta(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.metadata[key]
	return v, ok
}

// ClearMetadata drops all metadata keys.
func (s *BaseService) ClearMetadata() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata = make(map[string]any)
}

// Healthy implements the default health predicate. Services with custom
// health checks shadow this method.
func (s *BaseService) Healthy() bool {
	return domain.HealthyState(s.State())
}
