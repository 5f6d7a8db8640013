package search

import (
	"fmt"
)

const (
	// DefaultFuelConsumptionKgPerMin is the assumed fuel burn of the aircraft
	DefaultFuelConsumptionKgPerMin = 0.8

	// DefaultFallbackRangeKm is the range used when fuel status is unknown
	DefaultFallbackRangeKm = 100.0

	// RadiusFraction is the share of maximum range used as the search
	// radius. It stands for positional uncertainty and is not a
	// statistically derived confidence interval.
	RadiusFraction = 0.2
)

// Config holds the fixed parameters of an Estimator.
type Config struct {
	// FuelConsumptionKgPerMin is the fuel burn rate used for range estimation
	FuelConsumptionKgPerMin float64

	// FallbackRangeKm is returned by MaxRangeKm when no fuel status is known
	FallbackRangeKm float64
}

// DefaultConfig returns the stock estimator parameters.
func DefaultConfig() Config {
	return Config{
		FuelConsumptionKgPerMin: DefaultFuelConsumptionKgPerMin,
		FallbackRangeKm:         DefaultFallbackRangeKm,
	}
}

// Estimator runs the search area pipeline with a fixed configuration.
// It holds no mutable state and is safe for concurrent use.
type Estimator struct {
	cfg Config
}

// NewEstimator validates cfg and creates an Estimator.
func NewEstimator(cfg Config) (*Estimator, error) {
	if cfg.FuelConsumptionKgPerMin <= 0 {
		return nil, fmt.Errorf("fuel consumption rate must be positive, got %g", cfg.FuelConsumptionKgPerMin)
	}
	if cfg.FallbackRangeKm <= 0 {
		return nil, fmt.Errorf("fallback range must be positive, got %g", cfg.FallbackRangeKm)
	}
	return &Estimator{cfg: cfg}, nil
}

// Config returns the estimator's configuration.
func (e *Estimator) Config() Config {
	return e.cfg
}
