// Package redisprobe provides a managed service that probes a Redis
// instance, surfacing connectivity loss as recoverable failures.
package redisprobe

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
)

const pingTimeout = 5 * time.Second

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// Service pings Redis on every execution. A dropped connection shows up
// as a dependency failure; a slow one as a network timeout.
type Service struct {
	service.BaseService
	cfg Config
	rdb *redis.Client

	pings int
}

// New creates a Redis probe service.
func New(name string, cfg Config) *Service {
	return &Service{
		BaseService: service.NewBaseService(name),
		cfg:         cfg,
	}
}

// Start connects to Redis and transitions the service to running.
func (s *Service) Start() error {
	opts, err := redis.ParseURL(s.cfg.URL)
	if err != nil {
		return domain.NewConfiguration("invalid redis URL", map[string]any{"error": err.Error()})
	}
	if s.cfg.Password != "" {
		opts.Password = s.cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return domain.NewDependencyFailure("failed to connect to redis",
			map[string]any{"error": err.Error()})
	}

	s.rdb = rdb
	s.pings = 0
	s.SetState(domain.StateRunning)
	s.SetMeta("started_at", time.Now().Unix())
	return nil
}

// Stop closes the connection and transitions the service to stopped.
func (s *Service) Stop() error {
	if s.rdb != nil {
		_ = s.rdb.Close()
		s.rdb = nil
	}
	s.SetState(domain.StateStopped)
	s.SetMeta("stopped_at", time.Now().Unix())
	return nil
}

// Execute pings Redis once and reports the round-trip latency.
func (s *Service) Execute() (any, error) {
	if s.State() != domain.StateRunning || s.rdb == nil {
		return nil, domain.NewServiceError("service is not running", nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	start := time.Now()
	err := s.rdb.Ping(ctx).Err()
	latency := time.Since(start)

	if err != nil {
		s.SetMeta("last_failure", time.Now().Unix())
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewNetworkTimeout("redis ping timed out",
				map[string]any{"timeout": pingTimeout.String()})
		}
		return nil, domain.NewDependencyFailure("redis ping failed",
			map[string]any{"error": err.Error()})
	}

	s.pings++
	s.SetMeta("last_execution", time.Now().Unix())
	s.SetMeta("last_latency_ms", latency.Milliseconds())
	return latency, nil
}
