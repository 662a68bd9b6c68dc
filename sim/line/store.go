package line

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/line-sim/sim"
	"github.com/inference-sim/line-sim/sim/trace"
	"github.com/inference-sim/line-sim/sim/variate"
)

// Source is the raw-material store: an inexhaustible supply.
type Source struct {
	name      string
	inventory *sim.Container
	issued    float64
}

// NewSource creates an unbounded source.
func NewSource(s *sim.Simulator, name string) *Source {
	return &Source{
		name:      name,
		inventory: sim.NewContainer(s, name, math.Inf(1)),
	}
}

// Name returns the store name.
func (src *Source) Name() string { return src.name }

// Get removes qty; with an unbounded level it never suspends.
func (src *Source) Get(p *sim.Process, qty float64) error {
	if err := src.inventory.Get(p, qty); err != nil {
		return err
	}
	src.issued += qty
	return nil
}

// Issued returns the total quantity handed out.
func (src *Source) Issued() float64 { return src.issued }

// Sink is the finished-goods store. Deliveries raise its level; a demand
// process withdraws orders, recording shortfalls when stock runs out.
// Unmet demand is lost, never backordered.
type Sink struct {
	name      string
	sim       *sim.Simulator
	inventory *sim.Container
	interval  variate.Sampler
	quantity  variate.Sampler
	trace     *trace.SimulationTrace

	orders       int
	shortfalls   int
	shortfallQty float64
	demandQty    float64
	fulfilledQty float64
	receivedQty  float64
	series       []Sample
}

// NewSink creates a finished-goods store with the given initial level.
// A nil interval sampler disables demand.
func NewSink(s *sim.Simulator, name string, initial float64, interval, quantity variate.Sampler, tr *trace.SimulationTrace) *Sink {
	sk := &Sink{
		name:      name,
		sim:       s,
		inventory: sim.NewContainer(s, name, initial),
		interval:  interval,
		quantity:  quantity,
		trace:     tr,
	}
	sk.sample()
	return sk
}

// Name returns the store name.
func (sk *Sink) Name() string { return sk.name }

// Level returns the current stock.
func (sk *Sink) Level() float64 { return sk.inventory.Level() }

func (sk *Sink) sample() {
	sk.series = append(sk.series, Sample{Time: sk.sim.Now(), Value: sk.inventory.Level()})
}

// Put receives a delivery.
func (sk *Sink) Put(qty float64) {
	sk.inventory.Put(qty)
	sk.receivedQty += qty
	sk.sample()
	logrus.Debugf("[t=%.3f] %s has inventory level %g", sk.sim.Now(), sk.name, sk.Level())
}

// Start spawns the demand process, if demand is configured.
func (sk *Sink) Start() {
	if sk.interval == nil || sk.quantity == nil {
		return
	}
	sk.sim.Spawn(sk.name+"/demand", sk.demand)
}

func (sk *Sink) demand(p *sim.Process) error {
	for {
		if err := p.Timeout(sk.interval.Sample()); err != nil {
			return err
		}
		sk.Fulfill(math.Max(0, math.Round(sk.quantity.Sample())))
	}
}

// Fulfill serves one order of qty units and returns the quantity withdrawn.
// If stock is short, everything left is withdrawn and the gap is recorded
// as a shortfall.
func (sk *Sink) Fulfill(qty float64) float64 {
	level := sk.Level()
	taken := sk.inventory.Withdraw(qty)
	sk.orders++
	sk.demandQty += qty
	sk.fulfilledQty += taken
	sk.sample()

	if level < qty {
		sk.shortfalls++
		sk.shortfallQty += qty - level
		logrus.Debugf("[t=%.3f] %s short by %g on an order of %g", sk.sim.Now(), sk.name, qty-level, qty)
		sk.trace.Record(trace.TransitionRecord{Clock: sk.sim.Now(), Entity: sk.name, Kind: trace.KindShortfall, Quantity: qty, Level: sk.Level()})
		return taken
	}
	logrus.Debugf("[t=%.3f] %s filled an order of %g", sk.sim.Now(), sk.name, qty)
	sk.trace.Record(trace.TransitionRecord{Clock: sk.sim.Now(), Entity: sk.name, Kind: trace.KindOrder, Quantity: qty, Level: sk.Level()})
	return taken
}

// LevelSeries returns the (time, level) samples taken on every change.
func (sk *Sink) LevelSeries() []Sample { return sk.series }

// StoreStats is the per-run view of the finished-goods store.
type StoreStats struct {
	Name              string
	Level             float64
	Orders            int
	Shortfalls        int
	ShortfallQuantity float64
	DemandQuantity    float64
	FulfilledQuantity float64
	ReceivedQuantity  float64
}

// Stats returns the store's counters.
func (sk *Sink) Stats() StoreStats {
	return StoreStats{
		Name:              sk.name,
		Level:             sk.Level(),
		Orders:            sk.orders,
		Shortfalls:        sk.shortfalls,
		ShortfallQuantity: sk.shortfallQty,
		DemandQuantity:    sk.demandQty,
		FulfilledQuantity: sk.fulfilledQty,
		ReceivedQuantity:  sk.receivedQty,
	}
}
