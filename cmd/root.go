package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/line-sim/sim/experiment"
	"github.com/inference-sim/line-sim/sim/trace"
)

var (
	configPath    string  // YAML experiment file
	seed          int64   // Master seed for all replications
	horizon       float64 // Simulated time per replication (seconds)
	replications  int     // Number of independent replications
	batchSize     float64 // Units per consolidated trip to the sink
	reorderPoint  float64 // Replenishment reorder point s
	orderUpTo     float64 // Replenishment order-up-to level S
	pollInterval  float64 // Seconds between inventory checks while sleeping
	traceLevel    string  // Transition trace verbosity
	timeseriesDir string  // Directory for CSV time series ("" = none)
	logLevel      string  // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "line-sim",
	Short: "Discrete-event simulator for a manufacturing line",
}

// runCmd executes the experiment using the YAML config and CLI overrides
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run replications of the manufacturing line",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := loadExperimentConfig(configPath, cmd.Flags().Changed("config"))
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		applyOverrides(&cfg, cmd.Flags().Changed)

		startTime := time.Now()
		if err := runExperiment(cmd.OutOrStdout(), cfg, timeseriesDir); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// applyOverrides copies flag values into cfg, but only for flags the user
// actually set, so YAML values survive unset flags.
func applyOverrides(cfg *experiment.Config, changed func(string) bool) {
	if changed("seed") {
		cfg.Seed = seed
	}
	if changed("horizon") {
		cfg.Horizon = horizon
	}
	if changed("replications") {
		cfg.Replications = replications
	}
	if changed("trace") {
		cfg.Trace = traceLevel
	}
	if changed("batch-size") {
		cfg.Line.Vehicle.BatchSize = batchSize
	}
	if changed("reorder-point") {
		cfg.Line.Vehicle.ReorderPoint = reorderPoint
	}
	if changed("order-up-to") {
		cfg.Line.Vehicle.OrderUpTo = orderUpTo
	}
	if changed("poll-interval") {
		cfg.Line.Vehicle.PollInterval = pollInterval
	}
}

// runExperiment runs cfg, renders the report to w and, when dir is set,
// writes every replication's time series there.
func runExperiment(w io.Writer, cfg experiment.Config, dir string) error {
	runner := experiment.NewRunner(cfg)
	var exportErr error
	runner.OnReplication = func(rep *experiment.Replication) {
		if rep.Trace.Enabled() {
			writeTraceSummary(w, rep.Index, trace.Summarize(rep.Trace))
		}
		if dir == "" || exportErr != nil {
			return
		}
		paths, err := saveSeries(dir, rep.Index, rep.Series)
		if err != nil {
			exportErr = err
			return
		}
		logrus.Infof("Replication %d: wrote %d time series to %s", rep.Index, len(paths), dir)
	}

	summary, err := runner.Run()
	if err != nil {
		return err
	}
	writeSummary(w, summary)
	if exportErr != nil {
		return fmt.Errorf("exporting time series: %w", exportErr)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	def := experiment.DefaultConfig()

	runCmd.Flags().StringVar(&configPath, "config", defaultsFilePath, "YAML experiment file")
	runCmd.Flags().Int64Var(&seed, "seed", def.Seed, "Master seed; replication i uses a key derived from it")
	runCmd.Flags().Float64Var(&horizon, "horizon", def.Horizon, "Simulated seconds per replication")
	runCmd.Flags().IntVar(&replications, "replications", def.Replications, "Number of independent replications")
	runCmd.Flags().StringVar(&traceLevel, "trace", def.Trace, "Trace level (none, transitions)")
	runCmd.Flags().StringVar(&timeseriesDir, "timeseries", "", "Directory to write per-replication CSV time series")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Vehicle and inventory policy
	runCmd.Flags().Float64Var(&batchSize, "batch-size", def.Line.Vehicle.BatchSize, "Units per consolidated trip to the finished-goods store")
	runCmd.Flags().Float64Var(&reorderPoint, "reorder-point", def.Line.Vehicle.ReorderPoint, "Reorder point s of the (s,S) replenishment policy")
	runCmd.Flags().Float64Var(&orderUpTo, "order-up-to", def.Line.Vehicle.OrderUpTo, "Order-up-to level S of the (s,S) replenishment policy")
	runCmd.Flags().Float64Var(&pollInterval, "poll-interval", def.Line.Vehicle.PollInterval, "Seconds between inventory checks while the operator sleeps")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
