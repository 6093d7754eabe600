package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/soroush-saki/self-healing-framework/internal/healing/health"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current status of all supervised services",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	setupLogging(cfg)

	client := &http.Client{Timeout: 5 * time.Second}
	url := fmt.Sprintf("http://localhost:%d/health/detailed", cfg.Server.Port)

	resp, err := client.Get(url)
	if err != nil {
		slog.Error("Failed to reach health endpoint, is the healer running?",
			"url", url, "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var report health.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		slog.Error("Failed to decode health report", "error", err)
		os.Exit(1)
	}

	fmt.Printf("System health: %s (%d/%d healthy)\n\n",
		report.SystemHealth, report.Summary.Healthy, report.Summary.TotalServices)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "SERVICE\tSTATE\tHEALTHY\tRECENT FAILURES")

	for name, status := range report.Services {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%t\t%d\n",
			name, status.State, status.Healthy, status.RecentFailures)
	}
	_ = w.Flush()

	for _, alert := range report.Alerts {
		fmt.Printf("\n[%s] %s\n", alert.Severity, alert.Message)
	}
}
