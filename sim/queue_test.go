package sim

import (
	"testing"
)

func TestWaitQueue_Peek_NonEmpty_ReturnsFront(t *testing.T) {
	// GIVEN a queue with waiters [A, B]
	wq := &WaitQueue[string]{}
	wq.Enqueue("A")
	wq.Enqueue("B")

	// WHEN Peek() is called
	got, ok := wq.Peek()

	// THEN it returns the front element without removing it
	if !ok || got != "A" {
		t.Errorf("Peek: got %q (ok=%v), want A", got, ok)
	}
	if wq.Len() != 2 {
		t.Errorf("Peek modified queue length: got %d, want 2", wq.Len())
	}
}

func TestWaitQueue_Peek_Empty_ReturnsNotOK(t *testing.T) {
	wq := &WaitQueue[*Process]{}
	got, ok := wq.Peek()
	if ok || got != nil {
		t.Errorf("Peek on empty queue: got %v (ok=%v), want nil/false", got, ok)
	}
}

func TestWaitQueue_Dequeue_FIFO(t *testing.T) {
	wq := &WaitQueue[int]{}
	for i := 1; i <= 3; i++ {
		wq.Enqueue(i)
	}
	for want := 1; want <= 3; want++ {
		got, ok := wq.Dequeue()
		if !ok || got != want {
			t.Errorf("Dequeue: got %d (ok=%v), want %d", got, ok, want)
		}
	}
	if _, ok := wq.Dequeue(); ok {
		t.Error("Dequeue on drained queue should report not ok")
	}
}

func TestWaitQueue_Remove_KeepsOrderOfRest(t *testing.T) {
	// GIVEN a queue [A, B, C]
	wq := &WaitQueue[string]{}
	wq.Enqueue("A")
	wq.Enqueue("B")
	wq.Enqueue("C")

	// WHEN B is removed
	if !wq.Remove("B") {
		t.Fatal("Remove(B) returned false")
	}

	// THEN the remaining order is A, C
	if got := wq.String(); got != "[A C]" {
		t.Errorf("queue after Remove = %s, want [A C]", got)
	}
	if wq.Remove("missing") {
		t.Error("Remove of absent waiter should return false")
	}
}
