package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
)

// StatusSource supplies the per-service snapshots the server reports on.
// The monitor satisfies this interface.
type StatusSource interface {
	StatusAll() map[string]domain.ServiceStatus
}

// Server provides HTTP endpoints for health monitoring.
type Server struct {
	source   StatusSource
	reporter *Reporter
	server   *http.Server
}

// NewServer creates a health server on the given port.
func NewServer(source StatusSource, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		source:   source,
		reporter: NewReporter(),
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/detailed", s.handleDetailed)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.reporter.Generate(s.source.StatusAll())

	response := map[string]string{"status": string(report.SystemHealth)}
	w.Header().Set("Content-Type", "application/json")

	if report.SystemHealth == StatusCritical {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	report := s.reporter.Generate(s.source.StatusAll())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
