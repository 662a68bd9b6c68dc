// Package line models the manufacturing line: stations connected by transfer
// links, a shared vehicle moving raw material in and finished goods out, and
// the inventory stores at both ends.
package line

import (
	"errors"

	"github.com/inference-sim/line-sim/sim"
)

var (
	// ErrUnsupported is returned by the direction a one-way transport does not serve.
	ErrUnsupported = errors.New("unsupported transport operation")
	// ErrAlreadyWired is returned when a station input or output is bound twice.
	ErrAlreadyWired = errors.New("already wired")
)

// Transport moves quantity between two endpoints.
// Send pushes units toward the destination; Get pulls units for the caller.
// Both may suspend the calling process.
type Transport interface {
	Name() string
	Send(p *sim.Process, qty float64) error
	Get(p *sim.Process, qty float64) error
}

// Vehicle is the mutually-exclusive carrier shared by vehicle transports.
// Grants are FIFO; *sim.Resource with capacity 1 satisfies it.
type Vehicle interface {
	Name() string
	Acquire(p *sim.Process) error
	Release(p *sim.Process)
}

// Endpoint is anything a transport can be named after.
type Endpoint interface {
	Name() string
}

// transportName derives a transport identity from its endpoints.
func transportName(src, dst Endpoint) string {
	return src.Name() + "->" + dst.Name()
}

// Sample is one point of a time series.
type Sample struct {
	Time  float64
	Value float64
}
