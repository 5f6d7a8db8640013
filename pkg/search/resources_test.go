package search

import (
	"math"
	"testing"
)

// TestEstimateResources tests resource sizing against hand computed values.
func TestEstimateResources(t *testing.T) {
	tests := []struct {
		name      string
		radius    float64
		want      ResourceEstimate
		wantHours float64
	}{
		{
			// area 3.14: every count at its floor, rate 30+10+30 = 70
			name:      "Tiny area uses minimums",
			radius:    1,
			want:      ResourceEstimate{Helicopters: 1, GroundTeams: 2, Drones: 2},
			wantHours: math.Pi / 70,
		},
		{
			// area 314.16: 3 helicopters, 6 teams, 12 drones, rate 90+30+180 = 300
			name:      "Ten kilometer radius",
			radius:    10,
			want:      ResourceEstimate{Helicopters: 3, GroundTeams: 6, Drones: 12},
			wantHours: 100 * math.Pi / 300,
		},
		{
			// area 1256.6: 12 helicopters, 25 teams, 50 drones, rate 360+125+750 = 1235
			name:      "Twenty kilometer radius",
			radius:    20,
			want:      ResourceEstimate{Helicopters: 12, GroundTeams: 25, Drones: 50},
			wantHours: 400 * math.Pi / 1235,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EstimateResources(tt.radius)
			if err != nil {
				t.Fatalf("EstimateResources failed: %v", err)
			}
			if got.Helicopters != tt.want.Helicopters ||
				got.GroundTeams != tt.want.GroundTeams ||
				got.Drones != tt.want.Drones {
				t.Errorf("Got %+v, want %+v", got, tt.want)
			}
			if math.Abs(got.EstimatedHours-tt.wantHours) > 1e-9 {
				t.Errorf("Expected %.4f hours, got %.4f", tt.wantHours, got.EstimatedHours)
			}
		})
	}
}

// TestEstimateResourcesMonotonic checks counts never shrink as the radius grows.
func TestEstimateResourcesMonotonic(t *testing.T) {
	prev, err := EstimateResources(0.1)
	if err != nil {
		t.Fatalf("EstimateResources failed: %v", err)
	}

	for r := 0.2; r <= 100; r += 0.1 {
		cur, err := EstimateResources(r)
		if err != nil {
			t.Fatalf("EstimateResources(%f) failed: %v", r, err)
		}
		if cur.Helicopters < prev.Helicopters || cur.GroundTeams < prev.GroundTeams || cur.Drones < prev.Drones {
			t.Fatalf("Radius %f: %+v shrank from %+v", r, cur, prev)
		}
		if cur.EstimatedHours <= 0 {
			t.Fatalf("Radius %f: non-positive duration %f", r, cur.EstimatedHours)
		}
		if cur.CoverageRateKm2Hr() < 70 {
			t.Fatalf("Radius %f: coverage rate %f below the floor", r, cur.CoverageRateKm2Hr())
		}
		prev = cur
	}
}

// TestEstimateResourcesDomainErrors checks invalid radii.
func TestEstimateResourcesDomainErrors(t *testing.T) {
	for _, r := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		if _, err := EstimateResources(r); !IsDomain(err) {
			t.Errorf("Radius %f: expected DomainError, got %v", r, err)
		}
	}
}
