package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTransitions int
	ByEntity         map[string]map[Kind]int // entity → kind → count
	UnitsDelivered   map[string]float64      // entity → units delivered
	ShortfallOrders  int
	FirstClock       float64
	LastClock        float64
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ByEntity:       make(map[string]map[Kind]int),
		UnitsDelivered: make(map[string]float64),
	}
	if st == nil || len(st.Transitions) == 0 {
		return summary
	}

	summary.TotalTransitions = len(st.Transitions)
	summary.FirstClock = st.Transitions[0].Clock
	for _, r := range st.Transitions {
		kinds, ok := summary.ByEntity[r.Entity]
		if !ok {
			kinds = make(map[Kind]int)
			summary.ByEntity[r.Entity] = kinds
		}
		kinds[r.Kind]++
		switch r.Kind {
		case KindDeliver:
			summary.UnitsDelivered[r.Entity] += r.Quantity
		case KindShortfall:
			summary.ShortfallOrders++
		}
		if r.Clock > summary.LastClock {
			summary.LastClock = r.Clock
		}
	}
	return summary
}
