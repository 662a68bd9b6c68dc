package sim

import "github.com/sirupsen/logrus"

// EventType identifies what an event does when it fires.
type EventType string

const (
	EventTypeGrant   EventType = "Grant"   // a resource or container handed a waiter what it asked for
	EventTypeTimeout EventType = "Timeout" // a Timeout elapsed
	EventTypeStart   EventType = "Start"   // a freshly spawned process runs for the first time
)

// EventTypePriority defines ordering for simultaneous events.
// Lower values are processed first.
var EventTypePriority = map[EventType]int{
	EventTypeGrant:   1,
	EventTypeTimeout: 2,
	EventTypeStart:   3,
}

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in simulated seconds), a per-simulator
// sequence number used as the final tie-breaker, and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	EventID() uint64
	Type() EventType
	Execute(*Simulator)
}

// BaseEvent provides common event fields
type BaseEvent struct {
	timestamp float64
	eventID   uint64
	eventType EventType
}

func newBaseEvent(timestamp float64, eventID uint64, eventType EventType) BaseEvent {
	return BaseEvent{
		timestamp: timestamp,
		eventID:   eventID,
		eventType: eventType,
	}
}

func (e *BaseEvent) Timestamp() float64 {
	return e.timestamp
}

func (e *BaseEvent) EventID() uint64 {
	return e.eventID
}

func (e *BaseEvent) Type() EventType {
	return e.eventType
}

// ResumeEvent hands control back to a suspended process.
type ResumeEvent struct {
	BaseEvent
	Process *Process
}

// Execute resumes the process unless it already finished.
func (e *ResumeEvent) Execute(sim *Simulator) {
	if e.Process.done {
		return
	}
	logrus.Tracef("<< %s: %s at %.3f", e.eventType, e.Process.name, e.timestamp)
	sim.transfer(e.Process, true)
}
