package search

import (
	"github.com/unklstewy/sar-scope/pkg/coordinates"
)

// Drift is the wind drift vector applied to the last known position.
type Drift struct {
	EastKm  float64 `json:"east_km"`
	NorthKm float64 `json:"north_km"`
}

// Summary echoes the inputs an estimate was computed from.
type Summary struct {
	LastKnownPosition coordinates.Geographic `json:"last_known_position"`
	Speed             Speed                  `json:"speed"`
	Heading           float64                `json:"heading"`
	Weather           WeatherObservation     `json:"weather"`

	// FuelKg is nil when the fuel status was unknown
	FuelKg *float64 `json:"fuel_status"`
}

// Summary returns the input summary. It reports false when a required
// field is absent.
func (in Input) Summary() (Summary, bool) {
	k := in.Kinematics
	if k.Position == nil || k.Speed == nil || k.Heading == nil || in.Weather == nil {
		return Summary{}, false
	}

	s := Summary{
		LastKnownPosition: *k.Position,
		Speed:             *k.Speed,
		Heading:           *k.Heading,
		Weather:           *in.Weather,
	}
	if in.Fuel != nil {
		s.FuelKg = Float64(in.Fuel.RemainingKg)
	}
	return s, true
}

// Plan is the complete output bundle of one estimate. Renderers and
// transports consume it read-only.
type Plan struct {
	Area       SearchArea       `json:"area"`
	MaxRangeKm float64          `json:"max_range_km"`
	Drift      Drift            `json:"drift"`
	Grid       ProbabilityGrid  `json:"grid"`
	Waypoints  []Waypoint       `json:"waypoints"`
	Resources  ResourceEstimate `json:"resources"`
	Risk       RiskAssessment   `json:"risk"`
	Summary    Summary          `json:"summary"`
}

// Plan runs the whole pipeline for one input snapshot. Any failure aborts
// the estimate; no partial plan is returned.
func (e *Estimator) Plan(in Input) (*Plan, error) {
	area, err := e.EstimateArea(in.Kinematics, in.Weather, in.Fuel)
	if err != nil {
		return nil, err
	}

	// EstimateArea has already validated the inputs below.
	maxRange, err := e.MaxRangeKm(in.Fuel, in.Kinematics)
	if err != nil {
		return nil, err
	}
	dx, dy := WindDriftKm(*in.Weather)
	summary, _ := in.Summary()

	grid, err := BuildGrid(area.Center, area.RadiusKm)
	if err != nil {
		return nil, err
	}

	waypoints, err := Spiral(grid)
	if err != nil {
		return nil, err
	}

	resources, err := EstimateResources(area.RadiusKm)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Area:       area,
		MaxRangeKm: maxRange,
		Drift:      Drift{EastKm: dx, NorthKm: dy},
		Grid:       grid,
		Waypoints:  waypoints,
		Resources:  resources,
		Risk:       AssessRisk(*in.Weather),
		Summary:    summary,
	}, nil
}
