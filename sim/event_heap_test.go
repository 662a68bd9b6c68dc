package sim

import (
	"testing"
)

func newTestEvent(ts float64, id uint64, kind EventType) *ResumeEvent {
	return &ResumeEvent{BaseEvent: newBaseEvent(ts, id, kind)}
}

// TestEventHeap_TimestampOrdering tests that events are processed in timestamp order
func TestEventHeap_TimestampOrdering(t *testing.T) {
	h := NewEventHeap()

	h.Schedule(newTestEvent(100, 1, EventTypeTimeout))
	h.Schedule(newTestEvent(50, 2, EventTypeTimeout))
	h.Schedule(newTestEvent(150, 3, EventTypeTimeout))

	for _, want := range []float64{50, 100, 150} {
		got := h.PopNext()
		if got.Timestamp() != want {
			t.Errorf("event timestamp = %v, want %v", got.Timestamp(), want)
		}
	}
	if h.Len() != 0 {
		t.Errorf("Heap should be empty, len = %d", h.Len())
	}
}

// TestEventHeap_TypePriorityOrdering tests same-timestamp events use type priority
func TestEventHeap_TypePriorityOrdering(t *testing.T) {
	h := NewEventHeap()

	// Added in reverse priority order
	h.Schedule(newTestEvent(10, 1, EventTypeStart))
	h.Schedule(newTestEvent(10, 2, EventTypeTimeout))
	h.Schedule(newTestEvent(10, 3, EventTypeGrant))

	for _, want := range []EventType{EventTypeGrant, EventTypeTimeout, EventTypeStart} {
		if got := h.PopNext().Type(); got != want {
			t.Errorf("event type = %s, want %s", got, want)
		}
	}
}

// TestEventHeap_EventIDTieBreaker tests identical timestamp and type fall back to scheduling order
func TestEventHeap_EventIDTieBreaker(t *testing.T) {
	h := NewEventHeap()

	h.Schedule(newTestEvent(10, 9, EventTypeTimeout))
	h.Schedule(newTestEvent(10, 3, EventTypeTimeout))
	h.Schedule(newTestEvent(10, 5, EventTypeTimeout))

	for _, want := range []uint64{3, 5, 9} {
		if got := h.PopNext().EventID(); got != want {
			t.Errorf("event ID = %d, want %d", got, want)
		}
	}
}

func TestEventHeap_EmptyHeap_PeekAndPopReturnNil(t *testing.T) {
	h := NewEventHeap()
	if h.Peek() != nil {
		t.Error("Peek on empty heap should return nil")
	}
	if h.PopNext() != nil {
		t.Error("PopNext on empty heap should return nil")
	}
}

func TestEventHeap_Clear_DropsPendingEvents(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(newTestEvent(1, 1, EventTypeTimeout))
	h.Schedule(newTestEvent(2, 2, EventTypeTimeout))

	h.Clear()

	if h.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", h.Len())
	}
}
