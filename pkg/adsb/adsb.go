// Package adsb looks up the last known state of an aircraft from ADS-B data
// and turns it into the kinematic input of a search estimate.
package adsb

import (
	"context"
	"strings"
	"time"

	"github.com/unklstewy/sar-scope/pkg/coordinates"
	"github.com/unklstewy/sar-scope/pkg/search"
)

// Aircraft represents an aircraft tracked via ADS-B.
// All position data is in WGS84 coordinate system.
type Aircraft struct {
	// ICAO is the unique 24-bit ICAO aircraft address (e.g., "A12345")
	ICAO string `json:"icao"`

	// Callsign is the flight number or aircraft registration
	Callsign string `json:"callsign"`

	// Latitude in decimal degrees (-90 to +90)
	Latitude float64 `json:"latitude"`

	// Longitude in decimal degrees (-180 to +180)
	Longitude float64 `json:"longitude"`

	// Altitude in feet above mean sea level (MSL)
	// Note: Some aircraft report geometric altitude, others barometric
	Altitude float64 `json:"altitude_ft"`

	// GroundSpeed in knots
	GroundSpeed float64 `json:"ground_speed_kts"`

	// Track is the ground track (heading) in degrees (0-359)
	// 0 = North, 90 = East, 180 = South, 270 = West
	Track float64 `json:"track_deg"`

	// VerticalRate in feet per minute (positive = climbing, negative = descending)
	VerticalRate float64 `json:"vertical_rate_fpm"`

	// HasPosition is false when the source never reported a position
	HasPosition bool `json:"has_position"`

	// HasVelocity is false when ground speed or track was never reported
	HasVelocity bool `json:"has_velocity"`

	// LastSeen is the timestamp of the last position update
	LastSeen time.Time `json:"last_seen"`
}

// DataSource is the interface that all last-known-state providers implement.
// The live airplanes.live client and the collector database both satisfy it.
type DataSource interface {
	// GetAircraftByICAO returns a specific aircraft by its ICAO address.
	// Returns nil if the aircraft is not known to the source.
	GetAircraftByICAO(ctx context.Context, icao string) (*Aircraft, error)

	// Close cleanly shuts down the data source connection.
	Close() error
}

// NormalizeICAO trims and lower-cases an ICAO hex address the way
// airplanes.live and the collector store it.
func NormalizeICAO(icao string) string {
	return strings.ToLower(strings.TrimSpace(icao))
}

// Kinematics converts the aircraft into the kinematic state of a search
// input. Ground speed is converted from knots to km/h. Fields the source
// never reported stay nil so the estimator can report them as missing.
func (a Aircraft) Kinematics() search.KinematicState {
	var k search.KinematicState

	if a.HasPosition {
		k.Position = &coordinates.Geographic{
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
			Altitude:  a.Altitude,
		}
	}

	if a.HasVelocity {
		k.Speed = &search.Speed{
			GroundKmh: a.GroundSpeed * coordinates.KnotsToKmh,
			Vertical:  a.VerticalRate,
		}
		k.Heading = search.Float64(coordinates.NormalizeAzimuth(a.Track))
	}

	return k
}

// Age returns how long ago the aircraft was last seen.
func (a Aircraft) Age(now time.Time) time.Duration {
	if a.LastSeen.IsZero() {
		return 0
	}
	return now.Sub(a.LastSeen)
}
