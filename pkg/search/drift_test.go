package search

import (
	"math"
	"testing"

	"github.com/unklstewy/sar-scope/pkg/coordinates"
)

// TestWindDriftKm tests the wind vector decomposition and its sign convention.
func TestWindDriftKm(t *testing.T) {
	tests := []struct {
		name   string
		wind   WeatherObservation
		wantDx float64
		wantDy float64
	}{
		{"Calm", WeatherObservation{WindSpeedKt: 0, WindDirectionDeg: 270}, 0, 0},
		{"Direction 0 drifts north", WeatherObservation{WindSpeedKt: 10, WindDirectionDeg: 0}, 0, 18.52},
		{"Direction 90 drifts east", WeatherObservation{WindSpeedKt: 10, WindDirectionDeg: 90}, 18.52, 0},
		{"Direction 180 drifts south", WeatherObservation{WindSpeedKt: 10, WindDirectionDeg: 180}, 0, -18.52},
		{"Direction 270 drifts west", WeatherObservation{WindSpeedKt: 10, WindDirectionDeg: 270}, -18.52, 0},
		{"Direction 45", WeatherObservation{WindSpeedKt: 1, WindDirectionDeg: 45}, 1.852 * math.Sqrt2 / 2, 1.852 * math.Sqrt2 / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := WindDriftKm(tt.wind)
			if math.Abs(dx-tt.wantDx) > 1e-9 || math.Abs(dy-tt.wantDy) > 1e-9 {
				t.Errorf("WindDriftKm = (%f, %f), want (%f, %f)", dx, dy, tt.wantDx, tt.wantDy)
			}
		})
	}
}

// TestMaxRangeKm tests fuel based range estimation.
func TestMaxRangeKm(t *testing.T) {
	est, err := NewEstimator(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEstimator failed: %v", err)
	}

	kin := KinematicState{
		Position: &coordinates.Geographic{},
		Speed:    &Speed{GroundKmh: 120},
		Heading:  Float64(90),
	}

	t.Run("Unknown fuel uses fallback", func(t *testing.T) {
		r, err := est.MaxRangeKm(nil, kin)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if r != 100 {
			t.Errorf("Expected fallback 100 km, got %f", r)
		}
	})

	t.Run("Range from fuel and speed", func(t *testing.T) {
		// 48 kg / 0.8 kg/min = 60 min at 120 km/h = 120 km
		r, err := est.MaxRangeKm(&FuelStatus{RemainingKg: 48}, kin)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if math.Abs(r-120) > 1e-9 {
			t.Errorf("Expected 120 km, got %f", r)
		}
	})

	t.Run("Negative ground speed is a domain error", func(t *testing.T) {
		bad := kin
		bad.Speed = &Speed{GroundKmh: -5}
		if _, err := est.MaxRangeKm(&FuelStatus{RemainingKg: 10}, bad); !IsDomain(err) {
			t.Errorf("Expected DomainError, got %v", err)
		}
	})

	t.Run("Negative ground speed without fuel is a domain error", func(t *testing.T) {
		bad := kin
		bad.Speed = &Speed{GroundKmh: -50}
		if _, err := est.MaxRangeKm(nil, bad); !IsDomain(err) {
			t.Errorf("Expected DomainError, got %v", err)
		}
	})

	t.Run("Missing speed without fuel", func(t *testing.T) {
		bad := kin
		bad.Speed = nil
		if _, err := est.MaxRangeKm(nil, bad); !IsMissingData(err) {
			t.Errorf("Expected MissingDataError, got %v", err)
		}
	})

	t.Run("Negative fuel is a domain error", func(t *testing.T) {
		if _, err := est.MaxRangeKm(&FuelStatus{RemainingKg: -1}, kin); !IsDomain(err) {
			t.Errorf("Expected DomainError, got %v", err)
		}
	})

	t.Run("Custom consumption rate", func(t *testing.T) {
		custom, err := NewEstimator(Config{FuelConsumptionKgPerMin: 2, FallbackRangeKm: 50})
		if err != nil {
			t.Fatalf("NewEstimator failed: %v", err)
		}
		// 120 kg / 2 kg/min = 60 min at 120 km/h
		r, _ := custom.MaxRangeKm(&FuelStatus{RemainingKg: 120}, kin)
		if math.Abs(r-120) > 1e-9 {
			t.Errorf("Expected 120 km, got %f", r)
		}
		r, _ = custom.MaxRangeKm(nil, kin)
		if r != 50 {
			t.Errorf("Expected fallback 50 km, got %f", r)
		}
	})
}

// TestNewEstimatorValidation rejects unusable configuration.
func TestNewEstimatorValidation(t *testing.T) {
	if _, err := NewEstimator(Config{FuelConsumptionKgPerMin: 0, FallbackRangeKm: 100}); err == nil {
		t.Error("Expected error for zero consumption rate")
	}
	if _, err := NewEstimator(Config{FuelConsumptionKgPerMin: 0.8, FallbackRangeKm: -1}); err == nil {
		t.Error("Expected error for negative fallback range")
	}
}
