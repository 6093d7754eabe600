package monitor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/soroush-saki/self-healing-framework/internal/core/domain"
	"github.com/soroush-saki/self-healing-framework/internal/core/service"
	"github.com/soroush-saki/self-healing-framework/internal/healing/detector"
	"github.com/soroush-saki/self-healing-framework/internal/healing/recovery"
)

// =============================================================================
// Scripted service
// =============================================================================

type scriptedService struct {
	service.BaseService
	failFirst int   // Execute calls that fail before succeeding; -1 fails forever
	failWith  error // failure to raise
	startErr  error

	execCalls int
	starts    int
	stops     int
}

func newScriptedService(name string, failFirst int, failWith error) *scriptedService {
	return &scriptedService{
		BaseService: service.NewBaseService(name),
		failFirst:   failFirst,
		failWith:    failWith,
	}
}

func (s *scriptedService) Start() error {
	s.starts++
	if s.startErr != nil {
		return s.startErr
	}
	s.SetState(domain.StateRunning)
	return nil
}

func (s *scriptedService) Stop() error {
	s.stops++
	s.SetState(domain.StateStopped)
	return nil
}

func (s *scriptedService) Execute() (any, error) {
	s.execCalls++
	if s.failFirst < 0 || s.execCalls <= s.failFirst {
		return nil, s.failWith
	}
	return fmt.Sprintf("result-%d", s.execCalls), nil
}

// fastMonitor builds a monitor whose strategies use millisecond delays.
// When failingFallback is set the fallback hook errors, so every recovery
// chain can be driven to failure.
func fastMonitor(failingFallback bool) *Monitor {
	var hook recovery.Hook
	if failingFallback {
		hook = func(svc service.ManagedService) error {
			return errors.New("no fallback path")
		}
	}
	orch := recovery.NewOrchestratorWith(
		recovery.NewRetryStrategy(3, time.Millisecond),
		recovery.NewRestartStrategy(true, time.Millisecond),
		recovery.NewFallbackStrategy(hook),
	)
	return NewWith(detector.New(), orch)
}

// =============================================================================
// Registry lifecycle
// =============================================================================

func TestRegister_ReplacingStopsPriorInstance(t *testing.T) {
	m := fastMonitor(false)

	first := newScriptedService("svc", 0, nil)
	_ = first.Start()
	m.Register(first)

	second := newScriptedService("svc", 0, nil)
	m.Register(second)

	if first.stops != 1 {
		t.Errorf("expected prior instance stopped once, got %d", first.stops)
	}

	// The registry now resolves to the new instance.
	_ = second.Start()
	result, err := m.ExecuteWithMonitoring(context.Background(), "svc", 5)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if second.execCalls != 1 || first.execCalls != 0 {
		t.Errorf("expected new instance to execute, got new=%d old=%d result=%v",
			second.execCalls, first.execCalls, result)
	}
}

func TestUnregister_StopsAndClearsHistory(t *testing.T) {
	m := fastMonitor(true)

	svc := newScriptedService("svc", -1, domain.NewNetworkTimeout("timeout", nil))
	svc.startErr = errors.New("will not start")
	m.Register(svc)
	svc.SetState(domain.StateRunning)

	_, _ = m.ExecuteWithMonitoring(context.Background(), "svc", 2)
	if m.Detector().RecentFailureCount("svc", 10) == 0 {
		t.Fatal("expected recorded failures before unregister")
	}

	m.Unregister("svc")

	if svc.stops == 0 {
		t.Error("expected service stopped on unregister")
	}
	if got := m.Detector().RecentFailureCount("svc", 10); got != 0 {
		t.Errorf("expected history cleared, got %d", got)
	}
	if _, err := m.Status("svc"); !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("expected not-found after unregister, got %v", err)
	}
}

func TestStartStopService(t *testing.T) {
	m := fastMonitor(false)
	svc := newScriptedService("svc", 0, nil)
	m.Register(svc)

	if err := m.StartService("svc"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if svc.State() != domain.StateRunning {
		t.Errorf("expected running, got %s", svc.State())
	}

	if err := m.StopService("svc"); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if svc.State() != domain.StateStopped {
		t.Errorf("expected stopped, got %s", svc.State())
	}

	if err := m.StartService("missing"); !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}

// =============================================================================
// Monitored execution
// =============================================================================

func TestExecute_SuccessReturnsResultUnchanged(t *testing.T) {
	m := fastMonitor(false)
	svc := newScriptedService("svc", 0, nil)
	m.Register(svc)
	_ = m.StartService("svc")

	result, err := m.ExecuteWithMonitoring(context.Background(), "svc", 5)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if result != "result-1" {
		t.Errorf("expected result-1, got %v", result)
	}
	if svc.State() != domain.StateRunning {
		t.Errorf("state should stay running, got %s", svc.State())
	}
}

func TestExecute_UnknownService(t *testing.T) {
	m := fastMonitor(false)

	if _, err := m.ExecuteWithMonitoring(context.Background(), "missing", 5); !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestExecute_RecoveryRevalidatesWithFreshExecution(t *testing.T) {
	m := fastMonitor(false)

	// Fails once; the retry probe (call 2) succeeds, then the loop must
	// re-invoke Execute (call 3) and return that result, not the probe's.
	svc := newScriptedService("svc", 1, domain.NewNetworkTimeout("timeout", nil))
	m.Register(svc)
	_ = m.StartService("svc")

	result, err := m.ExecuteWithMonitoring(context.Background(), "svc", 5)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if result != "result-3" {
		t.Errorf("expected the post-recovery execution's result, got %v", result)
	}
	if svc.execCalls != 3 {
		t.Errorf("expected 3 executions (fail, probe, fresh), got %d", svc.execCalls)
	}
}

func TestExecute_GivesUpAfterMaxFailures(t *testing.T) {
	m := fastMonitor(true)

	// Always fails with a transient error; restart cannot bring it back
	// and the fallback hook errors, so every recovery chain fails.
	svc := newScriptedService("svc", -1, domain.NewNetworkTimeout("timeout", nil))
	svc.startErr = errors.New("will not start")
	m.Register(svc)
	svc.SetState(domain.StateRunning)

	_, err := m.ExecuteWithMonitoring(context.Background(), "svc", 5)
	if !errors.Is(err, ErrGivenUp) {
		t.Fatalf("expected give-up, got %v", err)
	}
	if svc.State() != domain.StateStoppedWithError {
		t.Errorf("expected stopped_with_error, got %s", svc.State())
	}
	if got := m.Detector().RecentFailureCount("svc", 10); got != 5 {
		t.Errorf("expected exactly 5 classified failures, got %d", got)
	}
}

func TestExecute_DefaultMaxFailures(t *testing.T) {
	m := fastMonitor(true)

	svc := newScriptedService("svc", -1, domain.NewStateCorruption("corrupt", nil))
	svc.startErr = errors.New("will not start")
	m.Register(svc)
	svc.SetState(domain.StateRunning)

	_, err := m.ExecuteWithMonitoring(context.Background(), "svc", 0)
	if !errors.Is(err, ErrGivenUp) {
		t.Fatalf("expected give-up, got %v", err)
	}
	if got := m.Detector().RecentFailureCount("svc", 10); got != DefaultMaxFailures {
		t.Errorf("expected %d failures with the default ceiling, got %d", DefaultMaxFailures, got)
	}
}

// =============================================================================
// Status
// =============================================================================

func TestStatus_Snapshot(t *testing.T) {
	m := fastMonitor(false)
	svc := newScriptedService("svc", 0, nil)
	m.Register(svc)
	_ = m.StartService("svc")
	svc.SetMeta("version", "1.2.3")

	status, err := m.Status("svc")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}

	if status.Name != "svc" || status.State != domain.StateRunning || !status.Healthy {
		t.Errorf("unexpected status: %+v", status)
	}
	if status.RecentFailures != 0 {
		t.Errorf("expected no recent failures, got %d", status.RecentFailures)
	}
	if status.Metadata["version"] != "1.2.3" {
		t.Errorf("expected metadata copy, got %v", status.Metadata)
	}

	// Mutating the snapshot must not reach the service.
	status.Metadata["version"] = "tampered"
	if v, _ := svc.GetMeta("version"); v != "1.2.3" {
		t.Error("status snapshot leaked a mutable reference")
	}
}

func TestStatusAll(t *testing.T) {
	m := fastMonitor(false)
	m.Register(newScriptedService("a", 0, nil))
	m.Register(newScriptedService("b", 0, nil))

	statuses := m.StatusAll()
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	for _, name := range []string{"a", "b"} {
		if _, ok := statuses[name]; !ok {
			t.Errorf("missing status for %q", name)
		}
	}
}

// =============================================================================
// Polling loop
// =============================================================================

func TestMonitorLoop_DurationCutoff(t *testing.T) {
	m := fastMonitor(false)
	svc := newScriptedService("svc", 0, nil)
	m.Register(svc)
	_ = m.StartService("svc")

	done := make(chan struct{})
	go func() {
		m.MonitorLoop(context.Background(), "svc", 5*time.Millisecond, 40*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor loop did not honor its duration cutoff")
	}

	if svc.execCalls == 0 {
		t.Error("expected at least one execution during the loop")
	}
}

func TestMonitorLoop_StopMonitoring(t *testing.T) {
	m := fastMonitor(false)
	svc := newScriptedService("svc", 0, nil)
	m.Register(svc)
	_ = m.StartService("svc")

	done := make(chan struct{})
	go func() {
		m.MonitorLoop(context.Background(), "svc", 5*time.Millisecond, 0)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	m.StopMonitoring()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor loop did not stop after StopMonitoring")
	}
}

func TestMonitorLoop_LateLoopDoesNotRearmStopFlag(t *testing.T) {
	m := fastMonitor(false)
	svc := newScriptedService("svc", 0, nil)
	m.Register(svc)
	_ = m.StartService("svc")

	m.StopMonitoring()

	// A loop entered after the stop signal must exit without executing
	// and must not re-arm the shared flag for other loops.
	done := make(chan struct{})
	go func() {
		m.MonitorLoop(context.Background(), "svc", 5*time.Millisecond, 0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop started after StopMonitoring did not exit")
	}

	if svc.execCalls != 0 {
		t.Errorf("expected no executions after StopMonitoring, got %d", svc.execCalls)
	}
}
