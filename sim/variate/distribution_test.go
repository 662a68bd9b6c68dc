package variate

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, 0)
}

func sampleMean(s Sampler, n int) float64 {
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.Sample()
	}
	return sum / float64(n)
}

func TestUniformSampler_StaysInRange_MeanMatches(t *testing.T) {
	s, err := NewSampler(DistSpec{Type: "uniform", Params: map[string]float64{"min": 20, "max": 120}}, newSource(42))
	require.NoError(t, err)

	sum := 0.0
	for i := 0; i < 10000; i++ {
		v := s.Sample()
		if v < 20 || v > 120 {
			t.Fatalf("sample %d: %v outside [20, 120]", i, v)
		}
		sum += v
	}
	mean := sum / 10000
	if math.Abs(mean-70)/70 > 0.05 {
		t.Errorf("uniform mean = %.1f, want ≈ 70 (within 5%%)", mean)
	}
}

func TestNormalSampler_NeverAtOrBelowThreshold(t *testing.T) {
	// GIVEN a normal whose mass straddles the threshold
	s := Normal(5, 5, 3, newSource(7))

	// THEN every draw is strictly above the threshold
	for i := 0; i < 10000; i++ {
		if v := s.Sample(); v <= 3 {
			t.Fatalf("sample %d: %v <= low 3", i, v)
		}
	}
}

func TestNormalSampler_DefaultLowIsOne(t *testing.T) {
	s, err := NewSampler(DistSpec{Type: "normal", Params: map[string]float64{"mean": 1, "std_dev": 2}}, newSource(3))
	require.NoError(t, err)
	for i := 0; i < 5000; i++ {
		if v := s.Sample(); v <= DefaultNormalLow {
			t.Fatalf("sample %d: %v <= default low", i, v)
		}
	}
}

func TestNormalSampler_MeanMatchesParam(t *testing.T) {
	s := Normal(300, 30, DefaultNormalLow, newSource(42))
	mean := sampleMean(s, 10000)
	if math.Abs(mean-300)/300 > 0.02 {
		t.Errorf("normal mean = %.1f, want ≈ 300 (within 2%%)", mean)
	}
}

func TestExponentialSampler_MeanMatchesParam(t *testing.T) {
	s, err := NewSampler(DistSpec{Type: "exponential", Params: map[string]float64{"mean": 256}}, newSource(42))
	require.NoError(t, err)
	mean := sampleMean(s, 20000)
	if math.Abs(mean-256)/256 > 0.05 {
		t.Errorf("exponential mean = %.1f, want ≈ 256 (within 5%%)", mean)
	}
}

func TestTriangularSampler_StaysInRange(t *testing.T) {
	s, err := NewSampler(DistSpec{Type: "triangular", Params: map[string]float64{"min": 10, "mode": 20, "max": 60}}, newSource(1))
	require.NoError(t, err)
	for i := 0; i < 10000; i++ {
		if v := s.Sample(); v < 10 || v > 60 {
			t.Fatalf("sample %d: %v outside [10, 60]", i, v)
		}
	}
}

func TestConstantSampler_AlwaysSameValue(t *testing.T) {
	s, err := NewSampler(DistSpec{Type: "constant", Params: map[string]float64{"value": 60}}, nil)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 60.0, s.Sample())
	}
	assert.Equal(t, "constant(60)", s.String())
}

func TestSampler_SameSeed_SameSequence(t *testing.T) {
	spec := DistSpec{Type: "lognormal", Params: map[string]float64{"mu": 1, "sigma": 0.5}}
	a, err := NewSampler(spec, newSource(99))
	require.NoError(t, err)
	b, err := NewSampler(spec, newSource(99))
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		if va, vb := a.Sample(), b.Sample(); va != vb {
			t.Fatalf("draw %d differs: %v vs %v", i, va, vb)
		}
	}
}

func TestNewSampler_InvalidSpecs_ReturnError(t *testing.T) {
	tests := []struct {
		name string
		spec DistSpec
	}{
		{"unknown type", DistSpec{Type: "beta"}},
		{"uniform missing max", DistSpec{Type: "uniform", Params: map[string]float64{"min": 1}}},
		{"uniform inverted", DistSpec{Type: "uniform", Params: map[string]float64{"min": 5, "max": 1}}},
		{"normal negative sigma", DistSpec{Type: "normal", Params: map[string]float64{"mean": 5, "std_dev": -1}}},
		{"normal degenerate below low", DistSpec{Type: "normal", Params: map[string]float64{"mean": 0.5, "std_dev": 0}}},
		{"exponential zero mean", DistSpec{Type: "exponential", Params: map[string]float64{"mean": 0}}},
		{"triangular mode outside", DistSpec{Type: "triangular", Params: map[string]float64{"min": 1, "mode": 9, "max": 5}}},
		{"constant negative", DistSpec{Type: "constant", Params: map[string]float64{"value": -3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSampler(tt.spec, newSource(1))
			assert.Error(t, err)
			assert.Error(t, tt.spec.Validate())
		})
	}
}

func TestDistSpec_Validate_RejectsNonFiniteParams(t *testing.T) {
	spec := DistSpec{Type: "uniform", Params: map[string]float64{"min": 0, "max": math.Inf(1)}}
	err := spec.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "params.max")
}
