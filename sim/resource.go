package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Resource is a counted mutual-exclusion primitive with FIFO grants.
// A process holding a unit must Release it; Use does that on every exit path.
type Resource struct {
	name     string
	sim      *Simulator
	capacity int
	holders  []*Process
	waiters  WaitQueue[*Process]
}

// NewResource creates a resource with the given number of units.
func NewResource(sim *Simulator, name string, capacity int) *Resource {
	if capacity < 1 {
		panic(fmt.Sprintf("NewResource: %s capacity must be >= 1, got %d", name, capacity))
	}
	return &Resource{
		name:     name,
		sim:      sim,
		capacity: capacity,
	}
}

// Name returns the resource name.
func (r *Resource) Name() string {
	return r.name
}

// InUse returns the number of units currently held.
func (r *Resource) InUse() int {
	return len(r.holders)
}

// QueueLen returns the number of processes waiting for a unit.
func (r *Resource) QueueLen() int {
	return r.waiters.Len()
}

// Holds reports whether p currently holds a unit.
func (r *Resource) Holds(p *Process) bool {
	for _, h := range r.holders {
		if h == p {
			return true
		}
	}
	return false
}

// Acquire suspends p until a unit is granted. Requests are served in arrival
// order; a free unit is never handed past a process that is already waiting.
// If the simulation stops while p waits, any unit granted in the meantime is
// given back and ErrInterrupted is returned.
func (r *Resource) Acquire(p *Process) error {
	if r.Holds(p) {
		panic(fmt.Sprintf("Acquire: %s already holds %s", p.name, r.name))
	}
	if len(r.holders) < r.capacity && r.waiters.Len() == 0 {
		r.holders = append(r.holders, p)
		logrus.Tracef("[t=%.3f] %s acquired %s", r.sim.Clock, p.name, r.name)
		return nil
	}
	r.waiters.Enqueue(p)
	logrus.Tracef("[t=%.3f] %s queued for %s (position %d)", r.sim.Clock, p.name, r.name, r.waiters.Len())
	if err := p.suspend(); err != nil {
		if r.Holds(p) {
			r.Release(p)
		} else {
			r.waiters.Remove(p)
		}
		return err
	}
	logrus.Tracef("[t=%.3f] %s acquired %s", r.sim.Clock, p.name, r.name)
	return nil
}

// Release returns p's unit and grants it to the longest-waiting process.
func (r *Resource) Release(p *Process) {
	idx := -1
	for i, h := range r.holders {
		if h == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic(fmt.Sprintf("Release: %s does not hold %s", p.name, r.name))
	}
	r.holders = append(r.holders[:idx], r.holders[idx+1:]...)
	logrus.Tracef("[t=%.3f] %s released %s", r.sim.Clock, p.name, r.name)

	if next, ok := r.waiters.Dequeue(); ok {
		r.holders = append(r.holders, next)
		r.sim.wake(next, r.sim.Clock, EventTypeGrant)
	}
}

// Use acquires a unit, runs fn while holding it and releases it however fn exits.
func (r *Resource) Use(p *Process, fn func() error) error {
	if err := r.Acquire(p); err != nil {
		return err
	}
	defer r.Release(p)
	return fn()
}
