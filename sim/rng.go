package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Replication derives the key of replication i of an experiment.
// The derivation depends only on the master key and i, so replication i
// can be re-run on its own.
func (k SimulationKey) Replication(i int) SimulationKey {
	return SimulationKey(int64(k) ^ fnv1a64(fmt.Sprintf("replication_%d", i)))
}

// === Subsystem names ===

// SubsystemStation returns the subsystem name for a station's processing times.
func SubsystemStation(name string) string {
	return "station/" + name
}

// SubsystemLink returns the subsystem name for a link's transit delays.
func SubsystemLink(name string) string {
	return "link/" + name
}

// SubsystemTransport returns the subsystem name for a vehicle transport's travel times.
func SubsystemTransport(name string) string {
	return "transport/" + name
}

const (
	// SubsystemDemandInterval drives the time between two orders.
	SubsystemDemandInterval = "demand/interval"
	// SubsystemDemandQuantity drives order sizes.
	SubsystemDemandQuantity = "demand/quantity"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Each subsystem gets a PCG stream seeded with (masterSeed, fnv1a64(name)),
// so drawing from one entity never shifts the values another entity sees.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewPCG(uint64(p.key), uint64(fnv1a64(name))))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
