package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrInterrupted is returned by every suspension point once the simulation
// has stopped. Process bodies return it unchanged so deferred cleanup runs.
var ErrInterrupted = errors.New("process interrupted")

// ProcessFunc is the body of a process. A nil or ErrInterrupted return ends
// the process quietly; any other error aborts the run.
type ProcessFunc func(p *Process) error

// Process is a cooperative routine multiplexed onto the simulation clock.
// It runs on its own goroutine but only while the simulator has handed it
// control; it hands control back at every suspension point.
type Process struct {
	name   string
	sim    *Simulator
	resume chan bool
	done   bool
}

// Spawn registers body as a new process that starts at the current time,
// after every event already scheduled for this instant.
func (sim *Simulator) Spawn(name string, body ProcessFunc) *Process {
	p := &Process{
		name:   name,
		sim:    sim,
		resume: make(chan bool),
	}
	if sim.stopped {
		p.done = true
		return p
	}
	sim.procs = append(sim.procs, p)
	go p.main(body)
	sim.wake(p, sim.Clock, EventTypeStart)
	return p
}

func (p *Process) main(body ProcessFunc) {
	defer func() {
		p.done = true
		p.sim.yield <- struct{}{}
	}()
	if !<-p.resume {
		return
	}
	if err := body(p); err != nil && !errors.Is(err, ErrInterrupted) {
		p.sim.fail(p, err)
	}
}

// Name returns the process name used in logs and errors.
func (p *Process) Name() string {
	return p.name
}

// Sim returns the simulator the process runs on.
func (p *Process) Sim() *Simulator {
	return p.sim
}

// Done reports whether the process body has returned.
func (p *Process) Done() bool {
	return p.done
}

// suspend hands control back to the simulator until something wakes p.
func (p *Process) suspend() error {
	if p.sim.stopped {
		return ErrInterrupted
	}
	p.sim.yield <- struct{}{}
	if !<-p.resume {
		return ErrInterrupted
	}
	return nil
}

// Timeout suspends the process for d simulated seconds.
func (p *Process) Timeout(d float64) error {
	if d < 0 || math.IsNaN(d) {
		panic(fmt.Sprintf("Timeout: %s asked for invalid delay %v", p.name, d))
	}
	p.sim.wake(p, p.sim.Clock+d, EventTypeTimeout)
	return p.suspend()
}
