// sim/simulator.go
package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// ErrAlreadyRun is returned when Run is called on a simulator that has already finished.
var ErrAlreadyRun = errors.New("simulator already ran")

// Simulator is the core object that holds simulation time, the event queue
// and the set of cooperative processes multiplexed onto the clock.
//
// Exactly one goroutine (the caller of Run, or the process it handed control
// to) touches simulator state at any instant, so no locking is needed.
type Simulator struct {
	Clock   float64
	Horizon float64
	// EventQueue holds every pending resume, grant and start event.
	EventQueue *EventHeap

	procs       []*Process
	finished    int // completed processes still held in procs
	yield       chan struct{}
	nextEventID uint64
	failure     error
	stopped     bool
	ran         bool
}

// NewSimulator creates a simulator that runs until horizon simulated seconds.
// A horizon of +Inf runs until the event queue drains.
func NewSimulator(horizon float64) *Simulator {
	if horizon <= 0 || math.IsNaN(horizon) {
		panic(fmt.Sprintf("NewSimulator: horizon must be positive, got %v", horizon))
	}
	return &Simulator{
		Clock:      0,
		Horizon:    horizon,
		EventQueue: NewEventHeap(),
		yield:      make(chan struct{}),
	}
}

// Now returns the current simulated time.
func (sim *Simulator) Now() float64 {
	return sim.Clock
}

// Stopped reports whether the run is over and processes are being (or have been) torn down.
func (sim *Simulator) Stopped() bool {
	return sim.stopped
}

// newEventID generates the next event ID for this simulator
func (sim *Simulator) newEventID() uint64 {
	sim.nextEventID++
	return sim.nextEventID
}

// Schedule pushes an event into the simulator's EventQueue.
// Events scheduled after the run stopped are dropped.
func (sim *Simulator) Schedule(ev Event) {
	if sim.stopped {
		return
	}
	sim.EventQueue.Schedule(ev)
}

// wake schedules p to resume at the given time.
func (sim *Simulator) wake(p *Process, at float64, kind EventType) {
	sim.Schedule(&ResumeEvent{
		BaseEvent: newBaseEvent(at, sim.newEventID(), kind),
		Process:   p,
	})
}

// Run executes events in order until the horizon is reached, the queue drains
// or a process fails. Events stamped exactly at the horizon are not executed.
// On return every process has been interrupted and its goroutine has exited.
func (sim *Simulator) Run() error {
	if sim.ran {
		return ErrAlreadyRun
	}
	sim.ran = true

	for sim.EventQueue.Len() > 0 && sim.failure == nil {
		if sim.EventQueue.Peek().Timestamp() >= sim.Horizon {
			break
		}
		ev := sim.EventQueue.PopNext()
		if ev.Timestamp() < sim.Clock {
			panic(fmt.Sprintf("Clock went backwards: %v < %v", ev.Timestamp(), sim.Clock))
		}
		sim.Clock = ev.Timestamp()
		ev.Execute(sim)
	}

	if sim.failure == nil && !math.IsInf(sim.Horizon, 1) {
		sim.Clock = sim.Horizon
	}
	sim.shutdown()

	if sim.failure != nil {
		logrus.Errorf("[t=%.3f] Simulation aborted: %v", sim.Clock, sim.failure)
		return sim.failure
	}
	logrus.Debugf("[t=%.3f] Simulation ended", sim.Clock)
	return nil
}

// shutdown interrupts every live process in spawn order so their deferred
// cleanup runs and their goroutines exit.
func (sim *Simulator) shutdown() {
	sim.stopped = true
	sim.EventQueue.Clear()
	for _, p := range sim.procs {
		if !p.done {
			sim.transfer(p, false)
		}
	}
	sim.procs = nil
	sim.finished = 0
}

// transfer hands control to p and blocks until p suspends again or exits.
func (sim *Simulator) transfer(p *Process, proceed bool) {
	p.resume <- proceed
	<-sim.yield
	if p.done {
		sim.finished++
		sim.compact()
	}
}

// compact drops finished processes once they dominate the process list.
func (sim *Simulator) compact() {
	if sim.stopped || sim.finished < 1024 || sim.finished < len(sim.procs)/2 {
		return
	}
	live := sim.procs[:0]
	for _, p := range sim.procs {
		if !p.done {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(sim.procs); i++ {
		sim.procs[i] = nil
	}
	sim.procs = live
	sim.finished = 0
}

// fail records the first process error; Run stops at the next event boundary.
func (sim *Simulator) fail(p *Process, err error) {
	if sim.failure == nil {
		sim.failure = fmt.Errorf("process %s: %w", p.name, err)
	}
}

// LiveProcesses returns the number of processes that have not yet finished.
func (sim *Simulator) LiveProcesses() int {
	n := 0
	for _, p := range sim.procs {
		if !p.done {
			n++
		}
	}
	return n
}
