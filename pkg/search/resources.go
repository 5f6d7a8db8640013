package search

import (
	"math"
)

// Coverage model. Each resource is sized per unit area and searches a fixed
// area per hour.
const (
	helicopterAreaKm2 = 100.0 // 1 helicopter per 100 km²
	groundTeamAreaKm2 = 50.0  // 1 ground team per 50 km²
	droneAreaKm2      = 25.0  // 1 drone per 25 km²

	minHelicopters = 1
	minGroundTeams = 2
	minDrones      = 2

	helicopterRateKm2Hr = 30.0
	groundTeamRateKm2Hr = 5.0
	droneRateKm2Hr      = 15.0
)

// ResourceEstimate sizes the search effort for an area.
type ResourceEstimate struct {
	Helicopters    int     `json:"helicopters"`
	GroundTeams    int     `json:"ground_teams"`
	Drones         int     `json:"drones"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// CoverageRateKm2Hr returns the area the resource mix searches per hour.
func (r ResourceEstimate) CoverageRateKm2Hr() float64 {
	return helicopterRateKm2Hr*float64(r.Helicopters) +
		groundTeamRateKm2Hr*float64(r.GroundTeams) +
		droneRateKm2Hr*float64(r.Drones)
}

// EstimateResources sizes helicopters, ground teams and drones for a circle
// of radiusKm and estimates the search duration.
//
//	area        = π r²
//	helicopters = max(1, ⌊area/100⌋)
//	groundTeams = max(2, ⌊area/50⌋)
//	drones      = max(2, ⌊area/25⌋)
//	hours       = area / (30·helicopters + 5·groundTeams + 15·drones)
//
// The minimum counts keep the coverage rate at or above 70 km²/hr, so the
// division is always defined. A non-positive area is a *DomainError.
func EstimateResources(radiusKm float64) (ResourceEstimate, error) {
	if radiusKm <= 0 || math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) {
		return ResourceEstimate{}, domain("resource estimate", radiusKm, "radius must be positive")
	}

	area := math.Pi * radiusKm * radiusKm
	if area <= 0 {
		return ResourceEstimate{}, domain("resource estimate", area, "search area must be positive")
	}

	est := ResourceEstimate{
		Helicopters: max(minHelicopters, int(area/helicopterAreaKm2)),
		GroundTeams: max(minGroundTeams, int(area/groundTeamAreaKm2)),
		Drones:      max(minDrones, int(area/droneAreaKm2)),
	}
	est.EstimatedHours = area / est.CoverageRateKm2Hr()

	return est, nil
}
