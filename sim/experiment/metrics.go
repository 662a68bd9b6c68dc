package experiment

import (
	"math"
	"sort"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inference-sim/line-sim/sim/line"
)

// Entity kinds, in report order.
const (
	KindSource    = "source"
	KindStation   = "station"
	KindLink      = "link"
	KindTransport = "transport"
	KindStore     = "store"
)

var kindOrder = map[string]int{KindSource: 0, KindStation: 1, KindLink: 2, KindTransport: 3, KindStore: 4}

func compareLineOrder(kindA string, posA int, kindB string, posB int) int {
	if kindA != kindB {
		return kindOrder[kindA] - kindOrder[kindB]
	}
	return posA - posB
}

// EntityMetrics holds the named values one entity produced in one replication.
type EntityMetrics struct {
	Kind   string
	Order  int // position along the line, for reporting
	Values map[string]float64
}

// RunMetrics holds one replication's results keyed by entity name.
type RunMetrics map[string]EntityMetrics

// NewRunMetrics flattens a finalized line snapshot.
func NewRunMetrics(snap line.Snapshot) RunMetrics {
	m := RunMetrics{}
	pos := 0
	add := func(name, kind string, values map[string]float64) {
		m[name] = EntityMetrics{Kind: kind, Order: pos, Values: values}
		pos++
	}

	add(snap.Source, KindSource, map[string]float64{"issued": snap.SourceIssued})
	for _, st := range snap.Stations {
		add(st.Name, KindStation, map[string]float64{
			"processed":     float64(st.Processed),
			"busy_time":     st.BusyTime,
			"busy_fraction": st.BusyFraction,
		})
	}
	for _, lk := range snap.Links {
		add(lk.Name, KindLink, map[string]float64{
			"sent":      lk.Sent,
			"delivered": lk.Delivered,
			"taken":     lk.Taken,
			"in_flight": lk.InFlight,
			"buffered":  lk.Buffered,
		})
	}
	for i, tp := range snap.Transports {
		values := map[string]float64{
			"trips":           float64(tp.Trips),
			"delivered":       tp.Delivered,
			"wait_time":       tp.WaitTime,
			"sleep_time":      tp.SleepTime,
			"travel_time":     tp.TravelTime,
			"wait_fraction":   tp.WaitFraction,
			"sleep_fraction":  tp.SleepFraction,
			"travel_fraction": tp.TravelFraction,
			"busy_fraction":   tp.BusyFraction,
		}
		if i == len(snap.Transports)-1 {
			values["pending"] = snap.Pending
		}
		add(tp.Name, KindTransport, values)
	}
	add(snap.Store.Name, KindStore, map[string]float64{
		"level":              snap.Store.Level,
		"orders":             float64(snap.Store.Orders),
		"shortfalls":         float64(snap.Store.Shortfalls),
		"shortfall_quantity": snap.Store.ShortfallQuantity,
		"demand_quantity":    snap.Store.DemandQuantity,
		"fulfilled_quantity": snap.Store.FulfilledQuantity,
		"received_quantity":  snap.Store.ReceivedQuantity,
	})
	return m
}

// Names returns the entity names in line order.
func (m RunMetrics) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	slices.SortFunc(names, func(a, b string) int {
		return compareLineOrder(m[a].Kind, m[a].Order, m[b].Kind, m[b].Order)
	})
	return names
}

// Distribution summarizes one metric across replications.
type Distribution struct {
	Mean      float64
	StdDev    float64
	HalfWidth float64 // 95% Student-t confidence half-width
	Min       float64
	Median    float64
	Max       float64
	Count     int
}

// NewDistribution computes a Distribution from per-replication values.
// Returns zero-value Distribution for empty input.
func NewDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d := Distribution{
		Mean:   stat.Mean(sorted, nil),
		Min:    floats.Min(sorted),
		Median: stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		Max:    floats.Max(sorted),
		Count:  n,
	}
	if n > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
		d.HalfWidth = t.Quantile(0.975) * d.StdDev / math.Sqrt(float64(n))
	}
	return d
}

// entityAccumulator holds the running sums and samples of one entity.
type entityAccumulator struct {
	kind    string
	order   int
	sums    map[string]float64
	samples map[string][]float64
}

// Aggregator folds replications into per-entity averages. Sums are reset
// when replication 0 is folded and divided by the replication count at the
// end; the raw samples are kept for the spread statistics.
type Aggregator struct {
	entities map[string]*entityAccumulator
	n        int
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{entities: make(map[string]*entityAccumulator)}
}

// Fold adds replication i's metrics.
func (a *Aggregator) Fold(i int, m RunMetrics) {
	if i == 0 {
		a.entities = make(map[string]*entityAccumulator)
		a.n = 0
	}
	a.n++
	for name, em := range m {
		acc, ok := a.entities[name]
		if !ok {
			acc = &entityAccumulator{
				kind:    em.Kind,
				order:   em.Order,
				sums:    make(map[string]float64),
				samples: make(map[string][]float64),
			}
			a.entities[name] = acc
		}
		for k, v := range em.Values {
			acc.sums[k] += v
			acc.samples[k] = append(acc.samples[k], v)
		}
	}
}

// Replications returns the number of folded replications.
func (a *Aggregator) Replications() int { return a.n }

// MetricSummary is one averaged metric of an entity.
type MetricSummary struct {
	Name string
	Distribution
}

// EntitySummary is the averaged view of one entity.
type EntitySummary struct {
	Name    string
	Kind    string
	Metrics []MetricSummary
}

// Metric returns the named metric summary.
func (e EntitySummary) Metric(name string) (MetricSummary, bool) {
	for _, m := range e.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return MetricSummary{}, false
}

// Summary is the result of an experiment.
type Summary struct {
	Replications int
	Entities     []EntitySummary
}

// Entity returns the named entity summary.
func (s *Summary) Entity(name string) (EntitySummary, bool) {
	for _, e := range s.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return EntitySummary{}, false
}

// Summary divides the sums by the replication count and attaches the spread
// of each metric. Entities come out in line order, metrics by name.
func (a *Aggregator) Summary() *Summary {
	out := &Summary{Replications: a.n}
	names := make([]string, 0, len(a.entities))
	for name := range a.entities {
		names = append(names, name)
	}
	slices.SortFunc(names, func(x, y string) int {
		ex, ey := a.entities[x], a.entities[y]
		return compareLineOrder(ex.kind, ex.order, ey.kind, ey.order)
	})

	for _, name := range names {
		acc := a.entities[name]
		keys := make([]string, 0, len(acc.sums))
		for k := range acc.sums {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		es := EntitySummary{Name: name, Kind: acc.kind}
		for _, k := range keys {
			d := NewDistribution(acc.samples[k])
			// Entities missing from some replications still average over all of them.
			d.Mean = acc.sums[k] / float64(a.n)
			es.Metrics = append(es.Metrics, MetricSummary{Name: k, Distribution: d})
		}
		out.Entities = append(out.Entities, es)
	}
	return out
}
