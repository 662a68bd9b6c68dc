package line

import (
	"fmt"
	"math"

	"github.com/inference-sim/line-sim/sim/variate"
)

// Config describes one line: the raw-material source, the stations in order,
// the links between them, the vehicle and the finished-goods store.
type Config struct {
	Source    string           `yaml:"source"`
	Stations  []StationConfig  `yaml:"stations"`
	LinkDelay variate.DistSpec `yaml:"link_delay"`
	Vehicle   VehicleConfig    `yaml:"vehicle"`
	Sink      SinkConfig       `yaml:"sink"`
}

// StationConfig configures one station.
type StationConfig struct {
	Name       string           `yaml:"name"`
	Processing variate.DistSpec `yaml:"processing"`
	InSize     float64          `yaml:"in_size,omitempty"`  // units pulled per cycle (default 1)
	OutSize    float64          `yaml:"out_size,omitempty"` // units emitted per cycle (default 1)
}

// VehicleConfig configures the vehicle and the two transports that use it.
type VehicleConfig struct {
	Name         string           `yaml:"name"`
	Shared       *bool            `yaml:"shared,omitempty"` // nil = shared
	Travel       variate.DistSpec `yaml:"travel"`
	BatchSize    float64          `yaml:"batch_size"`
	ReorderPoint float64          `yaml:"reorder_point"`
	OrderUpTo    float64          `yaml:"order_up_to"`
	PollInterval float64          `yaml:"poll_interval"`
}

// IsShared reports whether both transports contend for a single vehicle.
func (v VehicleConfig) IsShared() bool {
	return v.Shared == nil || *v.Shared
}

// SinkConfig configures the finished-goods store and its demand.
type SinkConfig struct {
	Name           string            `yaml:"name"`
	InitialLevel   float64           `yaml:"initial_level"`
	DemandInterval *variate.DistSpec `yaml:"demand_interval,omitempty"` // nil disables demand
	DemandQuantity *variate.DistSpec `yaml:"demand_quantity,omitempty"`
}

func uniform(a, b float64) variate.DistSpec {
	return variate.DistSpec{Type: "uniform", Params: map[string]float64{"min": a, "max": b}}
}

func normal(mean, sd float64) variate.DistSpec {
	return variate.DistSpec{Type: "normal", Params: map[string]float64{"mean": mean, "std_dev": sd}}
}

// DefaultConfig returns the reference line: four stations, a shared AGV and
// random customer demand on the finished-goods store.
func DefaultConfig() Config {
	interval := uniform(600, 30000)
	quantity := normal(80, 5)
	return Config{
		Source: "raw_material",
		Stations: []StationConfig{
			{Name: "M1", Processing: uniform(20, 120), InSize: 1, OutSize: 10},
			{Name: "M2", Processing: uniform(120, 300)},
			{Name: "M3", Processing: normal(300, 30)},
			{Name: "M4", Processing: normal(360, 60)},
		},
		LinkDelay: uniform(10, 60),
		Vehicle: VehicleConfig{
			Name:         "AGV",
			Travel:       variate.DistSpec{Type: "constant", Params: map[string]float64{"value": 60}},
			BatchSize:    DefaultBatchSize,
			ReorderPoint: 20,
			OrderUpTo:    100,
			PollInterval: DefaultPollInterval,
		},
		Sink: SinkConfig{
			Name:           "finished_goods",
			InitialLevel:   0,
			DemandInterval: &interval,
			DemandQuantity: &quantity,
		},
	}
}

// Validate checks the configuration and names the offending field.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source: name must not be empty")
	}
	if len(c.Stations) == 0 {
		return fmt.Errorf("stations: at least one station required")
	}
	seen := map[string]bool{c.Source: true}
	for i, st := range c.Stations {
		prefix := fmt.Sprintf("stations[%d]", i)
		if st.Name == "" {
			return fmt.Errorf("%s.name must not be empty", prefix)
		}
		if seen[st.Name] {
			return fmt.Errorf("%s.name %q is not unique", prefix, st.Name)
		}
		seen[st.Name] = true
		if err := st.Processing.Validate(); err != nil {
			return fmt.Errorf("%s.processing: %w", prefix, err)
		}
		if err := validateNonNegative(prefix+".in_size", st.InSize); err != nil {
			return err
		}
		if err := validateNonNegative(prefix+".out_size", st.OutSize); err != nil {
			return err
		}
	}
	if len(c.Stations) > 1 {
		if err := c.LinkDelay.Validate(); err != nil {
			return fmt.Errorf("link_delay: %w", err)
		}
	}
	if err := c.Vehicle.validate(); err != nil {
		return err
	}
	if c.Sink.Name == "" {
		return fmt.Errorf("sink.name must not be empty")
	}
	if seen[c.Sink.Name] {
		return fmt.Errorf("sink.name %q is not unique", c.Sink.Name)
	}
	return c.Sink.validate()
}

func (v *VehicleConfig) validate() error {
	if v.Name == "" {
		return fmt.Errorf("vehicle.name must not be empty")
	}
	if err := v.Travel.Validate(); err != nil {
		return fmt.Errorf("vehicle.travel: %w", err)
	}
	if err := validatePositive("vehicle.batch_size", v.BatchSize); err != nil {
		return err
	}
	if err := validatePositive("vehicle.reorder_point", v.ReorderPoint); err != nil {
		return err
	}
	if err := validateFinite("vehicle.order_up_to", v.OrderUpTo); err != nil {
		return err
	}
	if v.OrderUpTo <= v.ReorderPoint {
		return fmt.Errorf("vehicle.order_up_to must exceed reorder_point (%g), got %g", v.ReorderPoint, v.OrderUpTo)
	}
	return validatePositive("vehicle.poll_interval", v.PollInterval)
}

func (s *SinkConfig) validate() error {
	if err := validateNonNegative("sink.initial_level", s.InitialLevel); err != nil {
		return err
	}
	if (s.DemandInterval == nil) != (s.DemandQuantity == nil) {
		return fmt.Errorf("sink: demand_interval and demand_quantity must be set together")
	}
	if s.DemandInterval == nil {
		return nil
	}
	if err := s.DemandInterval.Validate(); err != nil {
		return fmt.Errorf("sink.demand_interval: %w", err)
	}
	if err := s.DemandQuantity.Validate(); err != nil {
		return fmt.Errorf("sink.demand_quantity: %w", err)
	}
	return nil
}

func validateFinite(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	return nil
}

func validatePositive(name string, val float64) error {
	if err := validateFinite(name, val); err != nil {
		return err
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}

func validateNonNegative(name string, val float64) error {
	if err := validateFinite(name, val); err != nil {
		return err
	}
	if val < 0 {
		return fmt.Errorf("%s must be non-negative, got %f", name, val)
	}
	return nil
}
