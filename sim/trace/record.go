// Package trace provides state-transition recording for line entities.
// It stores plain data types and depends on neither sim/ nor sim/line/.
package trace

// Kind names a state transition.
type Kind string

const (
	KindProcessStart  Kind = "process_start"  // station began an item
	KindProcessFinish Kind = "process_finish" // station finished an item
	KindSleep         Kind = "sleep"          // replenishment vehicle skipped a poll
	KindWait          Kind = "wait"           // transport queued for the vehicle
	KindAcquire       Kind = "acquire"        // transport got the vehicle
	KindDeliver       Kind = "deliver"        // quantity arrived at its destination
	KindRelease       Kind = "release"        // transport gave the vehicle back
	KindOrder         Kind = "order"          // demand fully met
	KindShortfall     Kind = "shortfall"      // demand partially or not met
)

// TransitionRecord captures a single state transition of one entity.
type TransitionRecord struct {
	Clock    float64
	Entity   string
	Kind     Kind
	Quantity float64 // units moved or ordered; 0 when not applicable
	Level    float64 // inventory level after the transition; 0 when not applicable
}
