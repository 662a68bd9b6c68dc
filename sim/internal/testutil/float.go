// Package testutil provides assertion helpers shared by the simulator's
// test packages.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal fails the test when got differs from want by more than
// relTol relative to the larger magnitude.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertFractionsSumToOne checks that a set of time fractions partitions the
// elapsed time.
func AssertFractionsSumToOne(t *testing.T, name string, fractions ...float64) {
	t.Helper()
	sum := 0.0
	for _, f := range fractions {
		if f < -1e-9 || f > 1+1e-9 {
			t.Errorf("%s: fraction %v outside [0,1]", name, f)
		}
		sum += f
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("%s: fractions %v sum to %v, want 1", name, fractions, sum)
	}
}
