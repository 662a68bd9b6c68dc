package sim

import "container/heap"

// eventKey is the total order of pending events:
// timestamp, then type priority (lower first), then scheduling sequence.
type eventKey struct {
	at   float64
	prio int
	seq  uint64
}

func (k eventKey) before(o eventKey) bool {
	if k.at != o.at {
		return k.at < o.at
	}
	if k.prio != o.prio {
		return k.prio < o.prio
	}
	return k.seq < o.seq
}

type heapEntry struct {
	key eventKey
	ev  Event
}

// EventHeap is the simulator's pending-event set. The ordering key is taken
// once when an event is scheduled, so an event must not change its timestamp
// or type afterwards.
type EventHeap struct {
	entries []heapEntry
}

// NewEventHeap creates an empty event heap.
func NewEventHeap() *EventHeap {
	return &EventHeap{}
}

// Len implements heap.Interface
func (h *EventHeap) Len() int { return len(h.entries) }

// Less implements heap.Interface
func (h *EventHeap) Less(i, j int) bool { return h.entries[i].key.before(h.entries[j].key) }

// Swap implements heap.Interface
func (h *EventHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

// Push implements heap.Interface
func (h *EventHeap) Push(x any) { h.entries = append(h.entries, x.(heapEntry)) }

// Pop implements heap.Interface
func (h *EventHeap) Pop() any {
	n := len(h.entries)
	e := h.entries[n-1]
	h.entries[n-1] = heapEntry{}
	h.entries = h.entries[:n-1]
	return e
}

// Schedule adds an event.
func (h *EventHeap) Schedule(ev Event) {
	heap.Push(h, heapEntry{
		key: eventKey{at: ev.Timestamp(), prio: EventTypePriority[ev.Type()], seq: ev.EventID()},
		ev:  ev,
	})
}

// PopNext removes and returns the earliest event, or nil when empty.
func (h *EventHeap) PopNext() Event {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(heapEntry).ev
}

// Peek returns the earliest event without removing it, or nil when empty.
func (h *EventHeap) Peek() Event {
	if h.Len() == 0 {
		return nil
	}
	return h.entries[0].ev
}

// Clear drops every pending event.
func (h *EventHeap) Clear() {
	for i := range h.entries {
		h.entries[i] = heapEntry{}
	}
	h.entries = h.entries[:0]
}
