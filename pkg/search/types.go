// Package search estimates the probable search area for a missing aircraft
// and derives a search pattern, a resource estimate and a weather risk
// assessment from it.
//
// Every function in this package is pure: inputs are values, outputs are new
// values, and nothing is cached between calls. An Estimator only carries
// fixed configuration and may be shared between goroutines.
package search

import (
	"github.com/unklstewy/sar-scope/pkg/coordinates"
)

// Speed is the last reported velocity of the aircraft.
type Speed struct {
	// GroundKmh is ground speed in kilometers per hour (>= 0)
	GroundKmh float64 `json:"ground_kmh"`

	// Vertical is the vertical speed as reported; not used by any formula
	Vertical float64 `json:"vertical"`
}

// KinematicState is the last known state of the aircraft.
// Nil fields mean the value was never received.
type KinematicState struct {
	Position *coordinates.Geographic `json:"position,omitempty"`
	Speed    *Speed                  `json:"speed,omitempty"`

	// Heading in degrees. Required by EstimateArea, although no formula
	// consumes it.
	Heading *float64 `json:"heading,omitempty"`
}

// WeatherObservation is the local weather near the last known position.
type WeatherObservation struct {
	// WindSpeedKt is wind speed in knots
	WindSpeedKt float64 `json:"wind_speed_kt"`

	// WindDirectionDeg is wind direction in degrees (0-360)
	WindDirectionDeg float64 `json:"wind_direction_deg"`

	// VisibilityKm is horizontal visibility in kilometers
	VisibilityKm float64 `json:"visibility_km"`

	// PrecipitationMmHr is precipitation rate in mm/hr
	PrecipitationMmHr float64 `json:"precipitation_mm_hr"`
}

// FuelStatus is the remaining fuel on board. The consumption rate is
// configuration (Config.FuelConsumptionKgPerMin), not aircraft state.
type FuelStatus struct {
	RemainingKg float64 `json:"remaining_kg"`
}

// Input is the complete input snapshot for one estimate.
type Input struct {
	Kinematics KinematicState      `json:"kinematics"`
	Weather    *WeatherObservation `json:"weather,omitempty"`

	// Fuel is optional; when nil the fallback range is used
	Fuel *FuelStatus `json:"fuel,omitempty"`
}

// SearchArea is the estimated crash-site center and uncertainty radius.
type SearchArea struct {
	Center   coordinates.Geographic `json:"center"`
	RadiusKm float64                `json:"radius_km"`
}

// Waypoint is a single geographic stop in a search pattern.
type Waypoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Float64 returns a pointer to v. Handy for filling optional input fields.
func Float64(v float64) *float64 {
	return &v
}
