package line

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/line-sim/sim"
	"github.com/inference-sim/line-sim/sim/trace"
	"github.com/inference-sim/line-sim/sim/variate"
)

// Link is a point-to-point FIFO conduit between two stations. Every Send
// spends a transit delay before its units land in the buffer; Gets are
// served in request order.
type Link struct {
	name   string
	sim    *sim.Simulator
	delay  variate.Sampler
	buffer *sim.Container
	trace  *trace.SimulationTrace

	sent      float64 // units handed to Send
	delivered float64 // units that reached the buffer
	taken     float64 // units removed by Get
}

// NewLink creates a link named "<src>-><dst>".
func NewLink(s *sim.Simulator, src, dst Endpoint, delay variate.Sampler, tr *trace.SimulationTrace) *Link {
	name := transportName(src, dst)
	return &Link{
		name:   name,
		sim:    s,
		delay:  delay,
		buffer: sim.NewContainer(s, name, 0),
		trace:  tr,
	}
}

// Name returns the link identity.
func (l *Link) Name() string { return l.name }

// Send spends a transit delay, then places qty in the buffer.
func (l *Link) Send(p *sim.Process, qty float64) error {
	l.sent += qty
	logrus.Debugf("[t=%.3f] %s started sending %g", l.sim.Now(), l.name, qty)
	if err := p.Timeout(l.delay.Sample()); err != nil {
		return err
	}
	l.buffer.Put(qty)
	l.delivered += qty
	logrus.Debugf("[t=%.3f] %s delivered %g", l.sim.Now(), l.name, qty)
	l.trace.Record(trace.TransitionRecord{Clock: l.sim.Now(), Entity: l.name, Kind: trace.KindDeliver, Quantity: qty, Level: l.buffer.Level()})
	return nil
}

// Get suspends until qty is buffered, then removes it.
func (l *Link) Get(p *sim.Process, qty float64) error {
	if err := l.buffer.Get(p, qty); err != nil {
		return err
	}
	l.taken += qty
	return nil
}

// LinkStats is the per-run view of a link.
type LinkStats struct {
	Name      string
	Sent      float64
	Delivered float64
	Taken     float64
	InFlight  float64 // sent but still in transit
	Buffered  float64 // delivered but not yet taken
}

// Stats returns the link's counters.
func (l *Link) Stats() LinkStats {
	return LinkStats{
		Name:      l.name,
		Sent:      l.sent,
		Delivered: l.delivered,
		Taken:     l.taken,
		InFlight:  l.sent - l.delivered,
		Buffered:  l.buffer.Level(),
	}
}
