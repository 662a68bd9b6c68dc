// Package experiment runs independent replications of a line and folds
// their results into averages with confidence intervals.
package experiment

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/line-sim/sim"
	"github.com/inference-sim/line-sim/sim/line"
	"github.com/inference-sim/line-sim/sim/trace"
)

// Config is a complete experiment: how long, how often, from which seed,
// over which line.
type Config struct {
	Horizon      float64     `yaml:"horizon"`
	Replications int         `yaml:"replications"`
	Seed         int64       `yaml:"seed"`
	Trace        string      `yaml:"trace,omitempty"`
	Line         line.Config `yaml:"line"`
}

// DefaultConfig returns one 24-hour replication of the reference line.
func DefaultConfig() Config {
	return Config{
		Horizon:      86400,
		Replications: 1,
		Seed:         42,
		Trace:        string(trace.TraceLevelNone),
		Line:         line.DefaultConfig(),
	}
}

// Validate checks the run parameters and the line.
func (c *Config) Validate() error {
	if math.IsNaN(c.Horizon) || c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %f", c.Horizon)
	}
	if c.Replications < 1 {
		return fmt.Errorf("replications must be at least 1, got %d", c.Replications)
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, transitions", c.Trace)
	}
	return c.Line.Validate()
}

// Replication is the raw outcome of one run.
type Replication struct {
	Index    int
	Key      sim.SimulationKey
	Snapshot line.Snapshot
	Metrics  RunMetrics
	Series   map[string][]line.Sample
	Trace    *trace.SimulationTrace
}

// RunReplication builds a fresh simulator and line for replication i and
// runs it to the horizon. The result depends only on cfg and i.
func RunReplication(cfg Config, i int) (*Replication, error) {
	key := sim.NewSimulationKey(cfg.Seed).Replication(i)
	s := sim.NewSimulator(cfg.Horizon)
	var tr *trace.SimulationTrace
	if trace.TraceLevel(cfg.Trace) == trace.TraceLevelTransitions {
		tr = trace.NewSimulationTrace(trace.TraceLevelTransitions)
	}

	l, err := line.Build(s, cfg.Line, sim.NewPartitionedRNG(key), tr)
	if err != nil {
		return nil, err
	}
	l.Start()
	if err := s.Run(); err != nil {
		return nil, fmt.Errorf("replication %d: %w", i, err)
	}
	l.Finalize()

	snap := l.Snapshot()
	return &Replication{
		Index:    i,
		Key:      key,
		Snapshot: snap,
		Metrics:  NewRunMetrics(snap),
		Series:   l.Series(),
		Trace:    tr,
	}, nil
}

// Runner executes an experiment.
type Runner struct {
	cfg        Config
	aggregator *Aggregator
	// OnReplication, if set, observes each replication as it completes.
	OnReplication func(*Replication)
}

// NewRunner creates a runner for cfg.
func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg, aggregator: NewAggregator()}
}

// Run executes every replication in order and returns the averaged summary.
// The first failing replication aborts the experiment.
func (r *Runner) Run() (*Summary, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment config: %w", err)
	}
	logrus.Infof("Starting experiment: %d replication(s), horizon %g, seed %d",
		r.cfg.Replications, r.cfg.Horizon, r.cfg.Seed)

	for i := 0; i < r.cfg.Replications; i++ {
		rep, err := RunReplication(r.cfg, i)
		if err != nil {
			return nil, err
		}
		r.aggregator.Fold(i, rep.Metrics)
		logrus.Infof("Replication %d done (key %d): %d trips delivered, %d shortfalls",
			i, rep.Key, rep.Snapshot.Transports[len(rep.Snapshot.Transports)-1].Trips, rep.Snapshot.Store.Shortfalls)
		if r.OnReplication != nil {
			r.OnReplication(rep)
		}
	}
	return r.aggregator.Summary(), nil
}
