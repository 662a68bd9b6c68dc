package line

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/line-sim/sim"
	"github.com/inference-sim/line-sim/sim/trace"
	"github.com/inference-sim/line-sim/sim/variate"
)

// Station is a sequential processing stage. Each cycle it pulls InSize units
// from its input (if any), works for a processing draw, then hands OutSize
// units to its output without waiting for the delivery.
type Station struct {
	name       string
	sim        *sim.Simulator
	processing variate.Sampler
	in         Transport
	out        Transport
	inSize     float64
	outSize    float64
	trace      *trace.SimulationTrace

	starts    []float64
	finishes  []float64
	busyTime  float64
	finalized bool
	started   bool
}

// NewStation creates a station. Sizes below 1 default to 1.
func NewStation(s *sim.Simulator, name string, processing variate.Sampler, inSize, outSize float64, tr *trace.SimulationTrace) *Station {
	if inSize <= 0 {
		inSize = 1
	}
	if outSize <= 0 {
		outSize = 1
	}
	return &Station{
		name:       name,
		sim:        s,
		processing: processing,
		inSize:     inSize,
		outSize:    outSize,
		trace:      tr,
	}
}

// Name returns the station name.
func (st *Station) Name() string { return st.name }

// SetInput binds the upstream transport. It may be bound only once.
func (st *Station) SetInput(t Transport) error {
	if st.in != nil {
		return fmt.Errorf("%w: %s input already bound to %s", ErrAlreadyWired, st.name, st.in.Name())
	}
	st.in = t
	return nil
}

// SetOutput binds the downstream transport. It may be bound only once.
func (st *Station) SetOutput(t Transport) error {
	if st.out != nil {
		return fmt.Errorf("%w: %s output already bound to %s", ErrAlreadyWired, st.name, st.out.Name())
	}
	st.out = t
	return nil
}

// Start spawns the station's process.
func (st *Station) Start() {
	if st.started {
		panic(fmt.Sprintf("Start: station %s already started", st.name))
	}
	st.started = true
	st.sim.Spawn(st.name, st.run)
}

func (st *Station) run(p *sim.Process) error {
	for {
		if st.in != nil {
			if err := st.in.Get(p, st.inSize); err != nil {
				return err
			}
			logrus.Debugf("[t=%.3f] %s got %g from %s", st.sim.Now(), st.name, st.inSize, st.in.Name())
		}
		if err := st.process(p); err != nil {
			return err
		}
		if st.out != nil {
			out, qty := st.out, st.outSize
			logrus.Debugf("[t=%.3f] %s sent %g to %s", st.sim.Now(), st.name, qty, out.Name())
			st.sim.Spawn(st.name+"/dispatch", func(dp *sim.Process) error {
				return out.Send(dp, qty)
			})
		}
	}
}

func (st *Station) process(p *sim.Process) error {
	start := st.sim.Now()
	st.starts = append(st.starts, start)
	st.trace.Record(trace.TransitionRecord{Clock: start, Entity: st.name, Kind: trace.KindProcessStart})
	if err := p.Timeout(st.processing.Sample()); err != nil {
		return err
	}
	finish := st.sim.Now()
	st.finishes = append(st.finishes, finish)
	st.busyTime += finish - start
	st.trace.Record(trace.TransitionRecord{Clock: finish, Entity: st.name, Kind: trace.KindProcessFinish, Quantity: st.outSize})
	return nil
}

// Finalize folds the partial time of an item still in process into busy
// time. Calling it again has no further effect.
func (st *Station) Finalize() {
	if st.finalized {
		return
	}
	st.finalized = true
	if len(st.starts) > len(st.finishes) {
		st.busyTime += st.sim.Now() - st.starts[len(st.starts)-1]
	}
}

// BusyTime returns the accumulated processing time.
func (st *Station) BusyTime() float64 { return st.busyTime }

// Processed returns the number of completed cycles.
func (st *Station) Processed() int { return len(st.finishes) }

// BusyFraction returns busy time over elapsed time, 0 before any time has elapsed.
func (st *Station) BusyFraction() float64 {
	now := st.sim.Now()
	if now <= 0 {
		return 0
	}
	return st.busyTime / now
}

// ProcessedSeries returns the cumulative units emitted at each completion.
func (st *Station) ProcessedSeries() []Sample {
	series := make([]Sample, len(st.finishes))
	for i, t := range st.finishes {
		series[i] = Sample{Time: t, Value: float64(i+1) * st.outSize}
	}
	return series
}

// StationStats is the per-run view of a station.
type StationStats struct {
	Name         string
	Processed    int
	BusyTime     float64
	BusyFraction float64
}

// Stats returns the station's counters.
func (st *Station) Stats() StationStats {
	return StationStats{
		Name:         st.name,
		Processed:    st.Processed(),
		BusyTime:     st.busyTime,
		BusyFraction: st.BusyFraction(),
	}
}
