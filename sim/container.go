package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// getRequest is a pending Get on a Container.
type getRequest struct {
	proc    *Process
	qty     float64
	granted bool
}

// Container holds a non-negative quantity with blocking, FIFO-served Gets.
// Puts never block; capacity is unbounded. A level of +Inf models an
// inexhaustible supply.
type Container struct {
	name    string
	sim     *Simulator
	level   float64
	waiters WaitQueue[*getRequest]
}

// NewContainer creates a container with the given initial level.
func NewContainer(sim *Simulator, name string, initial float64) *Container {
	if initial < 0 || math.IsNaN(initial) {
		panic(fmt.Sprintf("NewContainer: %s initial level must be non-negative, got %v", name, initial))
	}
	return &Container{
		name:  name,
		sim:   sim,
		level: initial,
	}
}

// Name returns the container name.
func (c *Container) Name() string {
	return c.name
}

// Level returns the current quantity.
func (c *Container) Level() float64 {
	return c.level
}

// Waiting returns the number of blocked Gets.
func (c *Container) Waiting() int {
	return c.waiters.Len()
}

// Put adds qty and serves waiting Gets in order for as long as the head of
// the queue can be satisfied.
func (c *Container) Put(qty float64) {
	if qty < 0 || math.IsNaN(qty) {
		panic(fmt.Sprintf("Put: %s got invalid quantity %v", c.name, qty))
	}
	c.level += qty
	logrus.Tracef("[t=%.3f] %s +%g -> %g", c.sim.Clock, c.name, qty, c.level)
	c.serve()
}

func (c *Container) serve() {
	for {
		req, ok := c.waiters.Peek()
		if !ok || c.level < req.qty {
			return
		}
		c.waiters.Dequeue()
		c.level -= req.qty
		req.granted = true
		c.sim.wake(req.proc, c.sim.Clock, EventTypeGrant)
	}
}

// Get suspends p until qty is available, then removes it atomically.
// A Get never overtakes an earlier one still waiting.
func (c *Container) Get(p *Process, qty float64) error {
	if qty < 0 || math.IsNaN(qty) {
		panic(fmt.Sprintf("Get: %s got invalid quantity %v", c.name, qty))
	}
	if c.waiters.Len() == 0 && c.level >= qty {
		c.level -= qty
		logrus.Tracef("[t=%.3f] %s -%g -> %g", c.sim.Clock, c.name, qty, c.level)
		return nil
	}
	req := &getRequest{proc: p, qty: qty}
	c.waiters.Enqueue(req)
	if err := p.suspend(); err != nil {
		if !req.granted {
			c.waiters.Remove(req)
		}
		return err
	}
	logrus.Tracef("[t=%.3f] %s -%g -> %g", c.sim.Clock, c.name, qty, c.level)
	return nil
}

// Withdraw removes up to qty without blocking and returns the amount taken.
func (c *Container) Withdraw(qty float64) float64 {
	if qty < 0 || math.IsNaN(qty) {
		panic(fmt.Sprintf("Withdraw: %s got invalid quantity %v", c.name, qty))
	}
	taken := math.Min(qty, c.level)
	c.level -= taken
	return taken
}
