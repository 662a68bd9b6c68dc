package line

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/line-sim/sim"
	"github.com/inference-sim/line-sim/sim/trace"
	"github.com/inference-sim/line-sim/sim/variate"
)

// Line is one fully-wired instance of the topology:
// source -> replenish -> stations joined by links -> consolidate -> sink.
// A Line belongs to exactly one Simulator and is rebuilt per replication.
type Line struct {
	Source      *Source
	Replenish   *ReplenishingTransport
	Stations    []*Station
	Links       []*Link
	Consolidate *ConsolidatingTransport
	Sink        *Sink
	Vehicles    []*sim.Resource
}

// Build wires the line described by cfg into s. Every sampler draws from its
// own subsystem stream of rng, keyed by the entity it drives.
func Build(s *sim.Simulator, cfg Config, rng *sim.PartitionedRNG, tr *trace.SimulationTrace) (*Line, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid line config: %w", err)
	}
	l := &Line{Source: NewSource(s, cfg.Source)}

	sink, err := buildSink(s, cfg.Sink, rng, tr)
	if err != nil {
		return nil, err
	}
	l.Sink = sink

	for _, sc := range cfg.Stations {
		proc, err := variate.NewSampler(sc.Processing, rng.ForSubsystem(sim.SubsystemStation(sc.Name)))
		if err != nil {
			return nil, fmt.Errorf("station %s: %w", sc.Name, err)
		}
		l.Stations = append(l.Stations, NewStation(s, sc.Name, proc, sc.InSize, sc.OutSize, tr))
	}

	for i := 1; i < len(l.Stations); i++ {
		up, down := l.Stations[i-1], l.Stations[i]
		delay, err := variate.NewSampler(cfg.LinkDelay, rng.ForSubsystem(sim.SubsystemLink(transportName(up, down))))
		if err != nil {
			return nil, fmt.Errorf("link %s: %w", transportName(up, down), err)
		}
		link := NewLink(s, up, down, delay, tr)
		if err := up.SetOutput(link); err != nil {
			return nil, err
		}
		if err := down.SetInput(link); err != nil {
			return nil, err
		}
		l.Links = append(l.Links, link)
	}

	vc := cfg.Vehicle
	inVehicle, outVehicle := l.vehicles(s, vc)

	first, last := l.Stations[0], l.Stations[len(l.Stations)-1]
	inTravel, err := variate.NewSampler(vc.Travel, rng.ForSubsystem(sim.SubsystemTransport(transportName(l.Source, first))))
	if err != nil {
		return nil, fmt.Errorf("vehicle.travel: %w", err)
	}
	outTravel, err := variate.NewSampler(vc.Travel, rng.ForSubsystem(sim.SubsystemTransport(transportName(last, sink))))
	if err != nil {
		return nil, fmt.Errorf("vehicle.travel: %w", err)
	}

	l.Replenish = NewReplenishingTransport(s, l.Source, first, sink, inVehicle, inTravel,
		vc.ReorderPoint, vc.OrderUpTo, vc.PollInterval, tr)
	if err := first.SetInput(l.Replenish); err != nil {
		return nil, err
	}
	l.Consolidate = NewConsolidatingTransport(s, last, sink, outVehicle, outTravel, vc.BatchSize, tr)
	if err := last.SetOutput(l.Consolidate); err != nil {
		return nil, err
	}

	logrus.Infof("line built: %d stations, %d links, vehicle %s (shared=%v)",
		len(l.Stations), len(l.Links), vc.Name, vc.IsShared())
	return l, nil
}

// vehicles returns the carriers for the inbound and outbound transports:
// the same resource when shared, one each otherwise.
func (l *Line) vehicles(s *sim.Simulator, vc VehicleConfig) (in, out *sim.Resource) {
	if vc.IsShared() {
		v := sim.NewResource(s, vc.Name, 1)
		l.Vehicles = []*sim.Resource{v}
		return v, v
	}
	in = sim.NewResource(s, vc.Name+"/in", 1)
	out = sim.NewResource(s, vc.Name+"/out", 1)
	l.Vehicles = []*sim.Resource{in, out}
	return in, out
}

func buildSink(s *sim.Simulator, sc SinkConfig, rng *sim.PartitionedRNG, tr *trace.SimulationTrace) (*Sink, error) {
	if sc.DemandInterval == nil {
		return NewSink(s, sc.Name, sc.InitialLevel, nil, nil, tr), nil
	}
	interval, err := variate.NewSampler(*sc.DemandInterval, rng.ForSubsystem(sim.SubsystemDemandInterval))
	if err != nil {
		return nil, fmt.Errorf("sink.demand_interval: %w", err)
	}
	quantity, err := variate.NewSampler(*sc.DemandQuantity, rng.ForSubsystem(sim.SubsystemDemandQuantity))
	if err != nil {
		return nil, fmt.Errorf("sink.demand_quantity: %w", err)
	}
	return NewSink(s, sc.Name, sc.InitialLevel, interval, quantity, tr), nil
}

// Start spawns the station processes in line order, then the demand process.
func (l *Line) Start() {
	for _, st := range l.Stations {
		st.Start()
	}
	l.Sink.Start()
}

// Finalize closes every open interval at the current clock. Idempotent.
func (l *Line) Finalize() {
	for _, st := range l.Stations {
		st.Finalize()
	}
	l.Replenish.Finalize()
	l.Consolidate.Finalize()
}

// Snapshot is the finalized per-run state of a line.
type Snapshot struct {
	Duration     float64
	Source       string
	Stations     []StationStats
	Links        []LinkStats
	Transports   []TransportStats
	Store        StoreStats
	SourceIssued float64
	Pending      float64 // units left short of a full batch at the end
}

// Snapshot collects the stats of every entity, in line order.
func (l *Line) Snapshot() Snapshot {
	snap := Snapshot{
		Duration:     l.Sink.sim.Now(),
		Source:       l.Source.Name(),
		Store:        l.Sink.Stats(),
		SourceIssued: l.Source.Issued(),
		Pending:      l.Consolidate.Pending(),
	}
	for _, st := range l.Stations {
		snap.Stations = append(snap.Stations, st.Stats())
	}
	for _, lk := range l.Links {
		snap.Links = append(snap.Links, lk.Stats())
	}
	snap.Transports = []TransportStats{l.Replenish.Stats(), l.Consolidate.Stats()}
	return snap
}

// Series returns every recorded time series keyed by "<entity>/<metric>".
func (l *Line) Series() map[string][]Sample {
	out := make(map[string][]Sample, len(l.Stations)+1)
	for _, st := range l.Stations {
		out[st.Name()+"/processed"] = st.ProcessedSeries()
	}
	out[l.Sink.Name()+"/level"] = l.Sink.LevelSeries()
	return out
}
