package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/soroush-saki/self-healing-framework/internal/core/service"
	"github.com/soroush-saki/self-healing-framework/internal/healing/detector"
	"github.com/soroush-saki/self-healing-framework/internal/healing/health"
	"github.com/soroush-saki/self-healing-framework/internal/healing/monitor"
	"github.com/soroush-saki/self-healing-framework/internal/healing/recovery"
	"github.com/soroush-saki/self-healing-framework/internal/services"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the recovery pipeline demonstration scenarios",
	Long:  `Runs five scenarios that progressively exercise transient, recoverable, critical, and mixed failure patterns.`,
	Run:   runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

var divider = strings.Repeat("=", 70)

// demoMonitor builds a monitor with fast recovery delays so the demo does
// not spend most of its time sleeping.
func demoMonitor() *monitor.Monitor {
	orch := recovery.NewOrchestratorWith(
		recovery.NewRetryStrategy(3, 100*time.Millisecond),
		recovery.NewRestartStrategy(true, 100*time.Millisecond),
		recovery.NewFallbackStrategy(nil),
	)
	return monitor.NewWith(detector.New(), orch)
}

func runDemo(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	setupLogging(cfg)

	fmt.Println()
	fmt.Println("SELF-HEALING SERVICE SUPERVISOR - DEMONSTRATION")
	fmt.Println("Autonomous fault detection, classification, and recovery.")

	demos := []func(){
		demoBasicMonitoring,
		demoTransientFailures,
		demoRecoverableFailures,
		demoCriticalFailures,
		demoMultiService,
	}

	for _, demo := range demos {
		demo()
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Printf("\n%s\n", divider)
	fmt.Println("All demonstrations completed successfully.")
	fmt.Printf("%s\n\n", divider)
}

func header(title string) {
	fmt.Printf("\n%s\n%s\n%s\n\n", divider, title, divider)
}

func runIterations(mon *monitor.Monitor, reporter *health.Reporter, svcs []service.ManagedService, iterations int) {
	ctx := context.Background()

	for i := 0; i < iterations; i++ {
		for _, svc := range svcs {
			result, err := mon.ExecuteWithMonitoring(ctx, svc.Name(), monitor.DefaultMaxFailures)
			if err == nil {
				fmt.Printf("  %s: %v\n", svc.Name(), result)
			}
		}
		time.Sleep(200 * time.Millisecond)
	}

	report := reporter.Generate(mon.StatusAll())
	fmt.Printf("\n%s\n", reporter.FormatText(report))

	for _, svc := range svcs {
		_ = mon.StopService(svc.Name())
	}
}

func demoBasicMonitoring() {
	header("DEMO 1: Basic Service Monitoring (Stable Service)")

	mon := demoMonitor()
	svc := services.NewStableService("basic")
	mon.Register(svc)
	_ = mon.StartService(svc.Name())

	runIterations(mon, health.NewReporter(), []service.ManagedService{svc}, 3)
}

func demoTransientFailures() {
	header("DEMO 2: Transient Failure Recovery (Retry Strategy)")

	mon := demoMonitor()
	svc := services.NewTransientFailureService("transient", 0.3)
	mon.Register(svc)
	_ = mon.StartService(svc.Name())

	fmt.Println("  Service has a 30% failure rate, watch automatic retries...")
	runIterations(mon, health.NewReporter(), []service.ManagedService{svc}, 5)
}

func demoRecoverableFailures() {
	header("DEMO 3: Recoverable Failure Recovery (Restart Strategy)")

	mon := demoMonitor()
	svc := services.NewRecoverableFailureService("recoverable", 3)
	mon.Register(svc)
	_ = mon.StartService(svc.Name())

	fmt.Println("  State corrupts after every 3 operations, watch auto-restart...")
	runIterations(mon, health.NewReporter(), []service.ManagedService{svc}, 8)
}

func demoCriticalFailures() {
	header("DEMO 4: Critical Failure Handling (Fallback to Degraded Mode)")

	mon := demoMonitor()
	svc := services.NewCriticalFailureService("critical", 5)
	mon.Register(svc)
	_ = mon.StartService(svc.Name())

	fmt.Println("  Service will hit a critical failure at execution #5...")
	runIterations(mon, health.NewReporter(), []service.ManagedService{svc}, 8)
}

func demoMultiService() {
	header("DEMO 5: Multi-Service Monitoring (Mixed Failure Patterns)")

	mon := demoMonitor()
	svcs := []service.ManagedService{
		services.NewStableService("stable-1"),
		services.NewTransientFailureService("transient-1", 0.2),
		services.NewRecoverableFailureService("recoverable-1", 4),
		services.NewIntermittentService("intermittent-1"),
	}

	for _, svc := range svcs {
		mon.Register(svc)
		_ = mon.StartService(svc.Name())
	}

	fmt.Println("  Running 4 services for 10 iterations...")
	runIterations(mon, health.NewReporter(), svcs, 10)
}
