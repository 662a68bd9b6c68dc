package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_Timeouts_ResumeInTimestampOrder(t *testing.T) {
	// GIVEN two processes that sleep for different durations
	s := NewSimulator(100)
	var order []string
	var times []float64
	s.Spawn("A", func(p *Process) error {
		if err := p.Timeout(5); err != nil {
			return err
		}
		order = append(order, "A")
		times = append(times, s.Now())
		return nil
	})
	s.Spawn("B", func(p *Process) error {
		if err := p.Timeout(3); err != nil {
			return err
		}
		order = append(order, "B")
		times = append(times, s.Now())
		return nil
	})

	// WHEN the simulation runs
	require.NoError(t, s.Run())

	// THEN the shorter timeout fires first, at its own timestamp
	assert.Equal(t, []string{"B", "A"}, order)
	assert.Equal(t, []float64{3, 5}, times)
}

func TestSimulator_SameTimestamp_TieBrokenBySchedulingOrder(t *testing.T) {
	// GIVEN three processes waking at the same instant
	s := NewSimulator(100)
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		s.Spawn(name, func(p *Process) error {
			if err := p.Timeout(7); err != nil {
				return err
			}
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, s.Run())

	// THEN they resume in the order their timeouts were scheduled
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestSimulator_Run_AdvancesClockToHorizon(t *testing.T) {
	// GIVEN a simulation with no events at all
	s := NewSimulator(250)

	require.NoError(t, s.Run())

	// THEN elapsed time is the full horizon
	assert.Equal(t, 250.0, s.Now())
}

func TestSimulator_EventAtHorizon_IsNotExecuted(t *testing.T) {
	// GIVEN a process whose timeout lands exactly on the horizon
	s := NewSimulator(10)
	fired := false
	cleaned := false
	s.Spawn("sleeper", func(p *Process) error {
		defer func() { cleaned = true }()
		if err := p.Timeout(10); err != nil {
			return err
		}
		fired = true
		return nil
	})

	require.NoError(t, s.Run())

	// THEN the wake-up never happens but deferred cleanup still runs
	assert.False(t, fired)
	assert.True(t, cleaned, "interrupted process must run its deferred calls")
	assert.Equal(t, 0, s.LiveProcesses())
}

func TestSimulator_ProcessError_AbortsRun(t *testing.T) {
	// GIVEN a process that fails at t=4 and one that would keep running
	s := NewSimulator(100)
	boom := errors.New("boom")
	ticks := 0
	s.Spawn("ticker", func(p *Process) error {
		for {
			if err := p.Timeout(1); err != nil {
				return err
			}
			ticks++
		}
	})
	s.Spawn("faulty", func(p *Process) error {
		if err := p.Timeout(4.5); err != nil {
			return err
		}
		return boom
	})

	// WHEN the simulation runs
	err := s.Run()

	// THEN the error surfaces, wrapped with the process name, and the run stops there
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "faulty")
	assert.Equal(t, 4.5, s.Now())
	assert.Equal(t, 4, ticks)
}

func TestSimulator_RunTwice_ReturnsErrAlreadyRun(t *testing.T) {
	s := NewSimulator(1)
	require.NoError(t, s.Run())
	assert.ErrorIs(t, s.Run(), ErrAlreadyRun)
}

func TestSimulator_SpawnFromProcess_StartsAtCurrentTime(t *testing.T) {
	// GIVEN a parent that spawns a child after 2 seconds and keeps going
	s := NewSimulator(100)
	var childStart, parentResume float64
	s.Spawn("parent", func(p *Process) error {
		if err := p.Timeout(2); err != nil {
			return err
		}
		s.Spawn("child", func(c *Process) error {
			childStart = s.Now()
			return nil
		})
		if err := p.Timeout(1); err != nil {
			return err
		}
		parentResume = s.Now()
		return nil
	})

	require.NoError(t, s.Run())

	// THEN the child starts at the spawn instant without blocking the parent
	assert.Equal(t, 2.0, childStart)
	assert.Equal(t, 3.0, parentResume)
}

func TestSimulator_InfiniteHorizon_StopsWhenQueueDrains(t *testing.T) {
	s := NewSimulator(math.Inf(1))
	s.Spawn("once", func(p *Process) error {
		return p.Timeout(42)
	})

	require.NoError(t, s.Run())
	assert.Equal(t, 42.0, s.Now())
}

func TestSimulator_SuspendAfterStop_ReturnsInterrupted(t *testing.T) {
	// GIVEN a process that ignores the interrupt and tries to sleep again
	s := NewSimulator(5)
	var second error
	s.Spawn("stubborn", func(p *Process) error {
		_ = p.Timeout(10)
		second = p.Timeout(1)
		return nil
	})

	require.NoError(t, s.Run())

	// THEN the second suspension fails immediately instead of hanging the goroutine
	assert.ErrorIs(t, second, ErrInterrupted)
}

func TestNewSimulator_NonPositiveHorizon_Panics(t *testing.T) {
	assert.Panics(t, func() { NewSimulator(0) })
	assert.Panics(t, func() { NewSimulator(-1) })
}
