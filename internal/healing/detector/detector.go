// Package detector classifies failures raised by managed services and
// escalates severity when repeated failures form a pattern.
package detector

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"os"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/healing/metrics"
)

const (
	// maxHistory caps the failure history. Oldest entries are evicted first.
	maxHistory = 100

	// escalationWindow is the number of trailing entries inspected for
	// repeated-failure patterns.
	escalationWindow = 10

	// transientEscalationThreshold is the failure count within the window
	// that promotes a transient failure to recoverable.
	transientEscalationThreshold = 5

	// recoverableEscalationThreshold is the failure count within the window
	// that promotes a recoverable failure to critical.
	recoverableEscalationThreshold = 8
)

// Entry is one recorded failure in the detector's history.
type Entry struct {
	ID       string
	Service  string
	Err      error
	Severity domain.Severity
	At       time.Time
}

// Detector records failures per service and classifies them by severity.
// A service that keeps raising transient errors is no longer experiencing
// a transient condition, so classification escalates under repetition.
type Detector struct {
	mu      sync.Mutex
	history []Entry
	log     *slog.Logger
}

// New creates a Detector with an empty history.
func New() *Detector {
	return &Detector{
		history: make([]Entry, 0, maxHistory),
		log:     slog.Default(),
	}
}

// Classify determines the severity of err for the given service.
//
// The call records the failure into history as a side effect, so calling
// it twice for the same failure is not idempotent: the second call sees
// the first in its escalation window.
func (d *Detector) Classify(err error, serviceName string) domain.Severity {
	d.mu.Lock()
	defer d.mu.Unlock()

	base := baseSeverity(err)
	id := d.record(serviceName, err, base)

	severity := d.escalate(serviceName, base)

	d.log.Info("Classified failure",
		"failure_id", id,
		"service", serviceName,
		"severity", severity.String(),
		"error", err.Error(),
	)
	metrics.ClassificationsTotal.WithLabelValues(serviceName, severity.String()).Inc()

	return severity
}

// RecentFailureCount returns how many of the last window history entries
// belong to serviceName. The count never exceeds window.
func (d *Detector) RecentFailureCount(serviceName string, window int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.countRecent(serviceName, window)
}

// ClearHistory removes every history entry for serviceName. Called when a
// service is unregistered.
func (d *Detector) ClearHistory(serviceName string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := d.history[:0]
	for _, e := range d.history {
		if e.Service != serviceName {
			kept = append(kept, e)
		}
	}
	d.history = kept

	d.log.Info("Cleared failure history", "service", serviceName)
}

// record appends a failure, evicting the oldest entry past the cap, and
// returns the new entry's ID.
func (d *Detector) record(serviceName string, err error, severity domain.Severity) string {
	entry := Entry{
		ID:       uuid.New().String(),
		Service:  serviceName,
		Err:      err,
		Severity: severity,
		At:       time.Now(),
	}

	if len(d.history) >= maxHistory {
		// Shift elements left, drop oldest
		copy(d.history, d.history[1:])
		d.history[len(d.history)-1] = entry
	} else {
		d.history = append(d.history, entry)
	}

	return entry.ID
}

// escalate promotes the base severity by at most one step when the service
// has failed repeatedly within the trailing window. The count includes the
// entry just recorded.
func (d *Detector) escalate(serviceName string, base domain.Severity) domain.Severity {
	recent := d.countRecent(serviceName, escalationWindow)

	if recent >= transientEscalationThreshold && base == domain.SeverityTransient {
		d.log.Warn("Escalating severity: transient -> recoverable",
			"service", serviceName,
			"recent_failures", recent,
		)
		metrics.EscalationsTotal.WithLabelValues(
			serviceName, domain.SeverityTransient.String(), domain.SeverityRecoverable.String(),
		).Inc()
		return domain.SeverityRecoverable
	}

	if recent >= recoverableEscalationThreshold && base == domain.SeverityRecoverable {
		d.log.Error("Escalating severity: recoverable -> critical",
			"service", serviceName,
			"recent_failures", recent,
		)
		metrics.EscalationsTotal.WithLabelValues(
			serviceName, domain.SeverityRecoverable.String(), domain.SeverityCritical.String(),
		).Inc()
		return domain.SeverityCritical
	}

	return base
}

func (d *Detector) countRecent(serviceName string, window int) int {
	if window <= 0 {
		return 0
	}

	start := len(d.history) - window
	if start < 0 {
		start = 0
	}

	count := 0
	for _, e := range d.history[start:] {
		if e.Service == serviceName {
			count++
		}
	}
	return count
}

// baseSeverity maps an error to its severity before pattern escalation.
// Structured failures carry their own severity; plain errors fall back to
// a fixed type table, defaulting to recoverable for anything unrecognized.
func baseSeverity(err error) domain.Severity {
	var svcErr *domain.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Severity
	}

	// Timeout and connection-style errors resolve themselves, usually.
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.SeverityTransient
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return domain.SeverityTransient
	}

	// Parse and lookup errors point at bad input or missing state.
	var numErr *strconv.NumError
	if errors.As(err, &numErr) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, sql.ErrNoRows) {
		return domain.SeverityRecoverable
	}

	// System-level resource exhaustion cannot be retried away.
	if errors.Is(err, syscall.ENOMEM) {
		return domain.SeverityCritical
	}

	return domain.SeverityRecoverable
}
