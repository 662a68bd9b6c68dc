// Package sim provides the discrete-event substrate the manufacturing line runs on.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - simulator.go: the clock, the event loop and horizon shutdown
//   - process.go: cooperative processes and the Timeout suspension point
//   - resource.go / container.go: the two blocking primitives
//
// # Processes
//
// A Process is a goroutine that runs only while the Simulator has handed it
// control. It hands control back at each suspension point (Timeout,
// Resource.Acquire, Container.Get), so exactly one process executes at a time
// and model code needs no locking. Simultaneous events are ordered by event
// type priority and then by scheduling sequence, which keeps runs with the
// same SimulationKey bit-for-bit reproducible.
//
// When the horizon is reached every suspended process is woken with
// ErrInterrupted; bodies return it so deferred releases run and goroutines exit.
//
// # Sub-packages
//   - sim/variate/: random-variate samplers built on gonum distributions
//   - sim/line/: stations, links, vehicle transports and inventory stores
//   - sim/experiment/: replications and cross-run aggregation
//   - sim/trace/: optional state-transition trace
package sim
