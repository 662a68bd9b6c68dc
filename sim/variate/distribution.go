// Package variate provides the random-variate samplers used for processing
// times, transit delays and demand. Samplers wrap gonum distributions and
// draw from a caller-supplied source so every entity can own an isolated,
// seeded stream.
package variate

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler produces one draw per call.
type Sampler interface {
	// Sample returns the next value.
	Sample() float64
	// String describes the distribution, e.g. "uniform(20, 120)".
	String() string
}

// DistSpec parameterizes a distribution in configuration files.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// DefaultNormalLow is the resampling threshold of normal draws when "low" is not given.
const DefaultNormalLow = 1.0

// maxResamples bounds the rejection loop of ThresholdNormal.
const maxResamples = 10000

// ConstantSampler always returns the same fixed value.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample() float64 { return s.value }
func (s *ConstantSampler) String() string  { return fmt.Sprintf("constant(%g)", s.value) }

// UniformSampler draws from U(min, max).
type UniformSampler struct {
	dist distuv.Uniform
}

func (s *UniformSampler) Sample() float64 { return s.dist.Rand() }
func (s *UniformSampler) String() string {
	return fmt.Sprintf("uniform(%g, %g)", s.dist.Min, s.dist.Max)
}

// ThresholdNormalSampler draws from N(mu, sigma), resampling until the value
// is strictly above low. Durations and order sizes use it to stay positive.
type ThresholdNormalSampler struct {
	dist distuv.Normal
	low  float64
}

func (s *ThresholdNormalSampler) Sample() float64 {
	for i := 0; i < maxResamples; i++ {
		if v := s.dist.Rand(); v > s.low {
			return v
		}
	}
	// Practically unreachable unless mu sits far below low.
	return math.Nextafter(s.low, math.Inf(1))
}

func (s *ThresholdNormalSampler) String() string {
	return fmt.Sprintf("normal(%g, %g | >%g)", s.dist.Mu, s.dist.Sigma, s.low)
}

// ExponentialSampler draws exponentially-distributed values with the given mean.
type ExponentialSampler struct {
	dist distuv.Exponential
}

func (s *ExponentialSampler) Sample() float64 { return s.dist.Rand() }
func (s *ExponentialSampler) String() string {
	return fmt.Sprintf("exponential(mean=%g)", 1/s.dist.Rate)
}

// TriangularSampler draws from a triangular distribution.
type TriangularSampler struct {
	dist           distuv.Triangle
	min, mode, max float64
}

func (s *TriangularSampler) Sample() float64 { return s.dist.Rand() }
func (s *TriangularSampler) String() string {
	return fmt.Sprintf("triangular(%g, %g, %g)", s.min, s.mode, s.max)
}

// LogNormalSampler draws exp(N(mu, sigma)).
type LogNormalSampler struct {
	dist distuv.LogNormal
}

func (s *LogNormalSampler) Sample() float64 { return s.dist.Rand() }
func (s *LogNormalSampler) String() string {
	return fmt.Sprintf("lognormal(%g, %g)", s.dist.Mu, s.dist.Sigma)
}

// Constant returns a sampler that always yields v.
func Constant(v float64) *ConstantSampler {
	return &ConstantSampler{value: v}
}

// Uniform returns a U(a, b) sampler drawing from src.
func Uniform(a, b float64, src rand.Source) *UniformSampler {
	return &UniformSampler{dist: distuv.Uniform{Min: a, Max: b, Src: src}}
}

// Normal returns a N(mu, sigma) sampler that resamples until strictly above low.
func Normal(mu, sigma, low float64, src rand.Source) *ThresholdNormalSampler {
	return &ThresholdNormalSampler{dist: distuv.Normal{Mu: mu, Sigma: sigma, Src: src}, low: low}
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// validTypes lists the accepted DistSpec.Type values.
var validTypes = map[string]bool{
	"constant": true, "uniform": true, "normal": true, "exponential": true, "triangular": true, "lognormal": true,
}

// ValidTypes returns the accepted distribution type names, sorted.
func ValidTypes() []string {
	names := make([]string, 0, len(validTypes))
	for n := range validTypes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks the distribution parameters without building a sampler.
func (d DistSpec) Validate() error {
	if !validTypes[d.Type] {
		return fmt.Errorf("unknown distribution type %q; valid: %v", d.Type, ValidTypes())
	}
	for name, val := range d.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("params.%s must be a finite number, got %f", name, val)
		}
	}
	_, err := NewSampler(d, rand.NewPCG(0, 0))
	return err
}

// NewSampler creates a Sampler from a DistSpec, drawing from src.
func NewSampler(spec DistSpec, src rand.Source) (Sampler, error) {
	p := spec.Params
	switch spec.Type {
	case "constant":
		if err := requireParam(p, "value"); err != nil {
			return nil, err
		}
		if p["value"] < 0 {
			return nil, fmt.Errorf("constant value must be non-negative, got %g", p["value"])
		}
		return Constant(p["value"]), nil

	case "uniform":
		if err := requireParam(p, "min", "max"); err != nil {
			return nil, err
		}
		if p["min"] < 0 || p["min"] > p["max"] {
			return nil, fmt.Errorf("uniform needs 0 <= min <= max, got min=%g max=%g", p["min"], p["max"])
		}
		return Uniform(p["min"], p["max"], src), nil

	case "normal":
		if err := requireParam(p, "mean", "std_dev"); err != nil {
			return nil, err
		}
		if p["std_dev"] < 0 {
			return nil, fmt.Errorf("normal std_dev must be non-negative, got %g", p["std_dev"])
		}
		low := DefaultNormalLow
		if v, ok := p["low"]; ok {
			low = v
		}
		if p["std_dev"] == 0 && p["mean"] <= low {
			return nil, fmt.Errorf("normal with std_dev 0 never exceeds low=%g (mean=%g)", low, p["mean"])
		}
		return Normal(p["mean"], p["std_dev"], low, src), nil

	case "exponential":
		if err := requireParam(p, "mean"); err != nil {
			return nil, err
		}
		if p["mean"] <= 0 {
			return nil, fmt.Errorf("exponential mean must be positive, got %g", p["mean"])
		}
		return &ExponentialSampler{dist: distuv.Exponential{Rate: 1 / p["mean"], Src: src}}, nil

	case "triangular":
		if err := requireParam(p, "min", "mode", "max"); err != nil {
			return nil, err
		}
		a, c, b := p["min"], p["mode"], p["max"]
		if a < 0 || !(a <= c && c <= b) || a == b {
			return nil, fmt.Errorf("triangular needs 0 <= min <= mode <= max and min < max, got %g, %g, %g", a, c, b)
		}
		return &TriangularSampler{dist: distuv.NewTriangle(a, b, c, src), min: a, mode: c, max: b}, nil

	case "lognormal":
		if err := requireParam(p, "mu", "sigma"); err != nil {
			return nil, err
		}
		if p["sigma"] < 0 {
			return nil, fmt.Errorf("lognormal sigma must be non-negative, got %g", p["sigma"])
		}
		return &LogNormalSampler{dist: distuv.LogNormal{Mu: p["mu"], Sigma: p["sigma"], Src: src}}, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q; valid: %v", spec.Type, ValidTypes())
	}
}
