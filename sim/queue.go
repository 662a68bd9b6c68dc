// Implements the WaitQueue, which holds waiters blocked on a resource or container.

package sim

import (
	"fmt"
	"strings"
)

// WaitQueue represents a FIFO queue of waiters. Resources and containers
// serve waiters strictly in the order they were enqueued.
type WaitQueue[T comparable] struct {
	queue []T
}

// Enqueue adds a waiter to the back of the wait queue.
func (wq *WaitQueue[T]) Enqueue(w T) {
	wq.queue = append(wq.queue, w)
}

func (wq *WaitQueue[T]) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range wq.queue {
		sb.WriteString(fmt.Sprint(val))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of waiters in the queue.
func (wq *WaitQueue[T]) Len() int {
	return len(wq.queue)
}

// Peek returns the waiter at the front of the queue without removing it.
// ok is false when the queue is empty.
func (wq *WaitQueue[T]) Peek() (w T, ok bool) {
	if len(wq.queue) == 0 {
		return w, false
	}
	return wq.queue[0], true
}

// Dequeue removes the waiter at the front of the queue.
func (wq *WaitQueue[T]) Dequeue() (w T, ok bool) {
	if len(wq.queue) == 0 {
		return w, false
	}
	w = wq.queue[0]
	var zero T
	wq.queue[0] = zero
	wq.queue = wq.queue[1:]
	return w, true
}

// Remove deletes the first occurrence of w, keeping the order of the rest.
// Used when a waiter is interrupted before it was served.
func (wq *WaitQueue[T]) Remove(w T) bool {
	for i, v := range wq.queue {
		if v == w {
			wq.queue = append(wq.queue[:i], wq.queue[i+1:]...)
			return true
		}
	}
	return false
}
