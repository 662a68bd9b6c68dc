package trace

import (
	"testing"
)

func TestSummarize_NilTrace_ReturnsZeroSummary(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalTransitions != 0 || len(summary.ByEntity) != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestSummarize_CountsPerEntityAndKind(t *testing.T) {
	// GIVEN a trace with deliveries, a shortfall and station activity
	st := NewSimulationTrace(TraceLevelTransitions)
	st.Record(TransitionRecord{Clock: 5, Entity: "M1", Kind: KindProcessStart})
	st.Record(TransitionRecord{Clock: 60, Entity: "agv-out", Kind: KindDeliver, Quantity: 10})
	st.Record(TransitionRecord{Clock: 120, Entity: "agv-out", Kind: KindDeliver, Quantity: 10})
	st.Record(TransitionRecord{Clock: 900, Entity: "FinalProductStorage", Kind: KindShortfall, Quantity: 80})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts and units add up
	if summary.TotalTransitions != 4 {
		t.Errorf("TotalTransitions = %d, want 4", summary.TotalTransitions)
	}
	if got := summary.ByEntity["agv-out"][KindDeliver]; got != 2 {
		t.Errorf("agv-out deliveries = %d, want 2", got)
	}
	if got := summary.UnitsDelivered["agv-out"]; got != 20 {
		t.Errorf("agv-out units = %v, want 20", got)
	}
	if summary.ShortfallOrders != 1 {
		t.Errorf("ShortfallOrders = %d, want 1", summary.ShortfallOrders)
	}
	if summary.FirstClock != 5 || summary.LastClock != 900 {
		t.Errorf("clock span = [%v, %v], want [5, 900]", summary.FirstClock, summary.LastClock)
	}
}
