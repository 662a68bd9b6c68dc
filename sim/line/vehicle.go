package line

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/line-sim/sim"
	"github.com/inference-sim/line-sim/sim/trace"
	"github.com/inference-sim/line-sim/sim/variate"
)

// Defaults for the vehicle transports.
const (
	DefaultBatchSize    = 10
	DefaultPollInterval = 10
)

// phase is what a vehicle transport is doing right now. Phases are disjoint,
// so the time spent in each adds up to the elapsed time.
type phase int

const (
	phaseIdle phase = iota
	phaseSleeping
	phaseWaiting
	phaseTravelling
)

// vehicleLeg holds what both vehicle transports share: the vehicle, the
// travel-time sampler and the phase clock behind the wait/sleep/travel stats.
type vehicleLeg struct {
	name    string
	sim     *sim.Simulator
	vehicle Vehicle
	travel  variate.Sampler
	trace   *trace.SimulationTrace

	phase      phase
	phaseStart float64
	waitTime   float64
	sleepTime  float64
	travelTime float64
	trips      int
	delivered  float64
	finalized  bool
}

// enter closes the current phase and opens next at the current time.
func (v *vehicleLeg) enter(next phase) {
	now := v.sim.Now()
	elapsed := now - v.phaseStart
	switch v.phase {
	case phaseSleeping:
		v.sleepTime += elapsed
	case phaseWaiting:
		v.waitTime += elapsed
	case phaseTravelling:
		v.travelTime += elapsed
	}
	v.phase = next
	v.phaseStart = now
}

func (v *vehicleLeg) record(kind trace.Kind, qty, level float64) {
	v.trace.Record(trace.TransitionRecord{Clock: v.sim.Now(), Entity: v.name, Kind: kind, Quantity: qty, Level: level})
}

// trip queues for the vehicle, runs load, travels, runs unload and gives the
// vehicle back. The vehicle is released on every exit path, including an
// interruption at the horizon.
func (v *vehicleLeg) trip(p *sim.Process, qty float64, load func() error, unload func()) error {
	v.enter(phaseWaiting)
	logrus.Debugf("[t=%.3f] %s started waiting to acquire %s", v.sim.Now(), v.name, v.vehicle.Name())
	v.record(trace.KindWait, qty, 0)
	if err := v.vehicle.Acquire(p); err != nil {
		v.enter(phaseIdle)
		return err
	}
	defer func() {
		v.vehicle.Release(p)
		v.enter(phaseIdle)
		v.record(trace.KindRelease, 0, 0)
	}()

	v.enter(phaseTravelling)
	logrus.Debugf("[t=%.3f] %s acquired %s", v.sim.Now(), v.name, v.vehicle.Name())
	v.record(trace.KindAcquire, qty, 0)
	if load != nil {
		if err := load(); err != nil {
			return err
		}
	}
	if err := p.Timeout(v.travel.Sample()); err != nil {
		return err
	}
	if unload != nil {
		unload()
	}
	v.trips++
	v.delivered += qty
	logrus.Debugf("[t=%.3f] %s delivered %g", v.sim.Now(), v.name, qty)
	return nil
}

// finalize folds the phase still open at the end of the run.
func (v *vehicleLeg) finalize() {
	if v.finalized {
		return
	}
	v.enter(phaseIdle)
	v.finalized = true
}

// TransportStats is the per-run view of a vehicle transport.
// WaitFraction + SleepFraction + BusyFraction = 1 whenever time has elapsed;
// BusyFraction covers travelling as well as idle time between requests.
type TransportStats struct {
	Name           string
	Trips          int
	Delivered      float64
	WaitTime       float64
	SleepTime      float64
	TravelTime     float64
	WaitFraction   float64
	SleepFraction  float64
	TravelFraction float64
	BusyFraction   float64
}

func (v *vehicleLeg) stats() TransportStats {
	st := TransportStats{
		Name:       v.name,
		Trips:      v.trips,
		Delivered:  v.delivered,
		WaitTime:   v.waitTime,
		SleepTime:  v.sleepTime,
		TravelTime: v.travelTime,
	}
	elapsed := v.sim.Now()
	if elapsed <= 0 {
		return st
	}
	st.WaitFraction = v.waitTime / elapsed
	st.SleepFraction = v.sleepTime / elapsed
	st.TravelFraction = v.travelTime / elapsed
	st.BusyFraction = 1 - st.WaitFraction - st.SleepFraction
	return st
}

// === ConsolidatingTransport ===

// ConsolidatingTransport is a push-only vehicle transport that accumulates
// units and makes one trip per full batch, delivering exactly the batch size.
type ConsolidatingTransport struct {
	vehicleLeg
	sink        *Sink
	threshold   float64
	pending     float64 // units accumulated toward the next batch
	owed        int     // full batches not yet carried
	dispatching bool
}

// NewConsolidatingTransport creates the transport from src into sink.
func NewConsolidatingTransport(s *sim.Simulator, src Endpoint, sink *Sink, vehicle Vehicle, travel variate.Sampler, batchSize float64, tr *trace.SimulationTrace) *ConsolidatingTransport {
	if batchSize <= 0 {
		panic(fmt.Sprintf("NewConsolidatingTransport: batch size must be positive, got %v", batchSize))
	}
	return &ConsolidatingTransport{
		vehicleLeg: vehicleLeg{
			name:    transportName(src, sink),
			sim:     s,
			vehicle: vehicle,
			travel:  travel,
			trace:   tr,
		},
		sink:      sink,
		threshold: batchSize,
	}
}

// Name returns the transport identity.
func (c *ConsolidatingTransport) Name() string { return c.name }

// Pending returns the units accumulated toward the next batch.
func (c *ConsolidatingTransport) Pending() float64 { return c.pending }

// Send adds qty to the current batch. Every threshold crossing owes one trip;
// the surplus carries over to the next batch. Trips are carried out one at a
// time by whichever sender found the transport idle.
func (c *ConsolidatingTransport) Send(p *sim.Process, qty float64) error {
	c.pending += qty
	for c.pending >= c.threshold {
		c.pending -= c.threshold
		c.owed++
	}
	if c.owed == 0 || c.dispatching {
		return nil
	}

	c.dispatching = true
	defer func() { c.dispatching = false }()
	for c.owed > 0 {
		c.owed--
		err := c.trip(p, c.threshold, nil, func() {
			c.sink.Put(c.threshold)
			c.record(trace.KindDeliver, c.threshold, c.sink.Level())
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Get is not supported: the transport only pushes.
func (c *ConsolidatingTransport) Get(p *sim.Process, qty float64) error {
	return fmt.Errorf("%w: %s does not support get()", ErrUnsupported, c.name)
}

// Finalize closes the open phase. Safe to call more than once.
func (c *ConsolidatingTransport) Finalize() { c.finalize() }

// Stats returns the transport's counters and time fractions.
func (c *ConsolidatingTransport) Stats() TransportStats { return c.stats() }

// === ReplenishingTransport ===

// ReplenishingTransport is a pull-only vehicle transport from the raw
// material source to the first station, governed by an (s,S) policy on the
// finished-goods level: while s < level < S the operator sleeps and polls.
type ReplenishingTransport struct {
	vehicleLeg
	source       *Source
	monitored    *Sink
	reorderPoint float64
	orderUpTo    float64
	pollInterval float64
}

// NewReplenishingTransport creates the transport from source to dst,
// watching monitored's level. Requires 0 < reorderPoint < orderUpTo.
func NewReplenishingTransport(s *sim.Simulator, source *Source, dst Endpoint, monitored *Sink, vehicle Vehicle, travel variate.Sampler,
	reorderPoint, orderUpTo, pollInterval float64, tr *trace.SimulationTrace) *ReplenishingTransport {
	if !(0 < reorderPoint && reorderPoint < orderUpTo) {
		panic(fmt.Sprintf("NewReplenishingTransport: need 0 < s < S, got s=%v S=%v", reorderPoint, orderUpTo))
	}
	if pollInterval <= 0 {
		panic(fmt.Sprintf("NewReplenishingTransport: poll interval must be positive, got %v", pollInterval))
	}
	return &ReplenishingTransport{
		vehicleLeg: vehicleLeg{
			name:    transportName(source, dst),
			sim:     s,
			vehicle: vehicle,
			travel:  travel,
			trace:   tr,
		},
		source:       source,
		monitored:    monitored,
		reorderPoint: reorderPoint,
		orderUpTo:    orderUpTo,
		pollInterval: pollInterval,
	}
}

// Name returns the transport identity.
func (r *ReplenishingTransport) Name() string { return r.name }

// ShouldSleep reports whether the monitored level is inside the safe band (s, S).
func (r *ReplenishingTransport) ShouldSleep() bool {
	level := r.monitored.Level()
	return r.reorderPoint < level && level < r.orderUpTo
}

// Get sleeps while the monitored level is in the safe band, re-reading it
// after every poll, then fetches qty from the source with the vehicle.
func (r *ReplenishingTransport) Get(p *sim.Process, qty float64) error {
	for r.ShouldSleep() {
		r.enter(phaseSleeping)
		logrus.Debugf("[t=%.3f] %s sleeping, %s level %g in (%g, %g)",
			r.sim.Now(), r.name, r.monitored.Name(), r.monitored.Level(), r.reorderPoint, r.orderUpTo)
		r.record(trace.KindSleep, 0, r.monitored.Level())
		if err := p.Timeout(r.pollInterval); err != nil {
			return err
		}
	}
	return r.trip(p, qty, func() error {
		return r.source.Get(p, qty)
	}, nil)
}

// Send is not supported: the transport only pulls.
func (r *ReplenishingTransport) Send(p *sim.Process, qty float64) error {
	return fmt.Errorf("%w: %s does not support send()", ErrUnsupported, r.name)
}

// Finalize closes the open phase. Safe to call more than once.
func (r *ReplenishingTransport) Finalize() { r.finalize() }

// Stats returns the transport's counters and time fractions.
func (r *ReplenishingTransport) Stats() TransportStats { return r.stats() }
