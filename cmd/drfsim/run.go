package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cuemby/drfsim/pkg/config"
	"github.com/cuemby/drfsim/pkg/engine"
	"github.com/cuemby/drfsim/pkg/log"
	"github.com/cuemby/drfsim/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation to completion",
	Long: `Load a cluster configuration, run the DRF-with-preemption engine to
queue exhaustion, and print a final per-application and per-node summary.

Examples:
  # Run a simulation and print the summary
  drfsim run --config cluster.yaml

  # Trace every dispatched event at debug level
  drfsim run --config cluster.yaml --trace --log-level debug`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("config", "c", "", "Cluster configuration YAML file (required)")
	runCmd.Flags().String("metrics-addr", "", "If set, serve the final Prometheus snapshot on this address")
	runCmd.Flags().Bool("trace", false, "Log every dispatched event at debug level")
	_ = runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	trace, _ := cmd.Flags().GetBool("trace")

	doc, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	nodes, apps, schedule, tuning := doc.EngineInputs()

	opts := []engine.Option{}
	if trace {
		opts = append(opts, engine.WithLogger(log.WithComponent("engine")))
	} else {
		opts = append(opts, engine.WithLogger(zerolog.Nop()))
	}

	eng, err := engine.New(nodes, apps, schedule, tuning, opts...)
	if err != nil {
		return fmt.Errorf("constructing engine: %w", err)
	}

	timer := metrics.NewTimer()
	runErr := eng.Run()
	timer.ObserveDuration(metrics.RunDuration)
	metrics.ReportRunComplete(runErr)
	if runErr != nil {
		return fmt.Errorf("running simulation: %w", runErr)
	}

	printSummary(eng)

	if metricsAddr != "" {
		metrics.SetVersion(Version)
		collector := metrics.NewCollector(eng)
		collector.Collect()

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.HandleFunc("/healthz", metrics.HealthHandler())
		fmt.Printf("serving final snapshot on %s/metrics and %s/healthz, press Ctrl+C to exit\n", metricsAddr, metricsAddr)

		server := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("metrics server: %w", err)
		}
	}

	return nil
}

func printSummary(eng *engine.Engine) {
	fmt.Printf("simulation finished at t=%g\n\n", eng.Now())

	fmt.Println("applications:")
	fmt.Printf("  %-8s %-14s %-10s %-10s\n", "id", "dominant_share", "pending", "running")
	for _, app := range eng.AppStats() {
		fmt.Printf("  %-8d %-14.4f %-10d %-10d\n", app.ID, app.DominantShare, app.Pending, app.Running)
	}

	fmt.Println("\nnodes:")
	fmt.Printf("  %-8s %-24s %-24s\n", "id", "used", "capacity")
	for _, node := range eng.NodeStats() {
		fmt.Printf("  %-8d %-24v %-24v\n", node.ID, node.Used, node.Capacity)
	}
}
