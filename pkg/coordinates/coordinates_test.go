package coordinates

import (
	"math"
	"testing"
)

// TestNormalizeAzimuth tests azimuth normalization
func TestNormalizeAzimuth(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{0.0, 0.0},
		{359.0, 359.0},
		{360.0, 0.0},
		{361.0, 1.0},
		{-1.0, 359.0},
		{-90.0, 270.0},
		{720.0, 0.0},
	}

	for _, tt := range tests {
		got := NormalizeAzimuth(tt.input)
		if math.Abs(got-tt.want) > 0.0001 {
			t.Errorf("NormalizeAzimuth(%.1f) = %.1f, want %.1f", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeLongitude(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{0, 0},
		{180, 180},
		{181, -179},
		{-181, 179},
		{-74.5, -74.5},
	}

	for _, tt := range tests {
		if got := NormalizeLongitude(tt.input); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeLongitude(%.1f) = %.1f, want %.1f", tt.input, got, tt.want)
		}
	}
}

// TestBearing tests cardinal bearings between nearby points
func TestBearing(t *testing.T) {
	origin := Geographic{Latitude: 40.0, Longitude: -74.0}

	tests := []struct {
		name string
		to   Geographic
		want float64
	}{
		{"North", Geographic{Latitude: 41.0, Longitude: -74.0}, 0.0},
		{"South", Geographic{Latitude: 39.0, Longitude: -74.0}, 180.0},
		{"East", Geographic{Latitude: 40.0, Longitude: -73.0}, 90.0},
		{"West", Geographic{Latitude: 40.0, Longitude: -75.0}, 270.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(origin, tt.to)
			diff := math.Abs(got - tt.want)
			if diff > 180 {
				diff = 360 - diff
			}
			// East/west bearings curve slightly on a great circle
			if diff > 1.0 {
				t.Errorf("Bearing = %.2f, want ~%.2f", got, tt.want)
			}
		})
	}
}

// TestDistanceKm tests the haversine distance
func TestDistanceKm(t *testing.T) {
	t.Run("Same point is zero", func(t *testing.T) {
		p := Geographic{Latitude: 35.0, Longitude: -80.0}
		if d := DistanceKm(p, p); d != 0 {
			t.Errorf("Expected 0 km, got %f", d)
		}
	})

	t.Run("One degree of latitude", func(t *testing.T) {
		a := Geographic{Latitude: 0, Longitude: 0}
		b := Geographic{Latitude: 1, Longitude: 0}
		d := DistanceKm(a, b)
		// 2*pi*6371/360 = 111.19 km
		if math.Abs(d-111.19) > 0.1 {
			t.Errorf("Expected ~111.19 km, got %f", d)
		}
		nm := DistanceNauticalMiles(a, b)
		if math.Abs(nm-d/KnotsToKmh) > 1e-9 {
			t.Errorf("Nautical miles mismatch: %f vs %f", nm, d/KnotsToKmh)
		}
	})
}

func TestGeographicValid(t *testing.T) {
	tests := []struct {
		name string
		pos  Geographic
		want bool
	}{
		{"Origin", Geographic{}, true},
		{"Corners", Geographic{Latitude: -90, Longitude: 180}, true},
		{"Latitude too high", Geographic{Latitude: 90.5}, false},
		{"Longitude too low", Geographic{Longitude: -180.1}, false},
		{"NaN", Geographic{Latitude: math.NaN()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
