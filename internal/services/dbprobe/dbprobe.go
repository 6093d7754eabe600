// Package dbprobe provides a managed service that probes a PostgreSQL
// database, surfacing connectivity loss as recoverable failures.
package dbprobe

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
)

const probeTimeout = 5 * time.Second

// Config holds PostgreSQL connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Service runs SELECT 1 against the database on every execution.
type Service struct {
	service.BaseService
	cfg Config
	db  *sqlx.DB

	probes int
}

// New creates a database probe service.
func New(name string, cfg Config) *Service {
	return &Service{
		BaseService: service.NewBaseService(name),
		cfg:         cfg,
	}
}

// Start opens the connection pool and transitions the service to running.
func (s *Service) Start() error {
	db, err := sqlx.Open("postgres", s.cfg.URL)
	if err != nil {
		return domain.NewConfiguration("invalid database URL",
			map[string]any{"error": err.Error()})
	}

	if s.cfg.MaxConns > 0 {
		db.SetMaxOpenConns(s.cfg.MaxConns)
	} else {
		db.SetMaxOpenConns(10)
	}
	if s.cfg.MinConns > 0 {
		db.SetMaxIdleConns(s.cfg.MinConns)
	} else {
		db.SetMaxIdleConns(2)
	}
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return domain.NewDependencyFailure("failed to connect to database",
			map[string]any{"error": err.Error()})
	}

	s.db = db
	s.probes = 0
	s.SetState(domain.StateRunning)
	s.SetMeta("started_at", time.Now().Unix())
	return nil
}

// Stop closes the pool and transitions the service to stopped.
func (s *Service) Stop() error {
	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}
	s.SetState(domain.StateStopped)
	s.SetMeta("stopped_at", time.Now().Unix())
	return nil
}

// Execute runs a trivial query and reports the round-trip latency.
func (s *Service) Execute() (any, error) {
	if s.State() != domain.StateRunning || s.db == nil {
		return nil, domain.NewServiceError("service is not running", nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	start := time.Now()
	var one int
	err := s.db.GetContext(ctx, &one, "SELECT 1")
	latency := time.Since(start)

	if err != nil {
		s.SetMeta("last_failure", time.Now().Unix())
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewNetworkTimeout("database probe timed out",
				map[string]any{"timeout": probeTimeout.String()})
		}
		return nil, domain.NewDependencyFailure("database probe failed",
			map[string]any{"error": err.Error()})
	}

	s.probes++
	s.SetMeta("last_execution", time.Now().Unix())
	s.SetMeta("last_latency_ms", latency.Milliseconds())
	return latency, nil
}
