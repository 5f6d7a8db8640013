// Package coordinates holds the geographic position type and the unit
// conversions shared by the search pipeline, the data sources and the renderers.
package coordinates

import (
	"math"
)

// Constants for coordinate calculations
const (
	// DegreesToRadians converts degrees to radians
	DegreesToRadians = math.Pi / 180.0

	// RadiansToDegrees converts radians to degrees
	RadiansToDegrees = 180.0 / math.Pi

	// EarthRadiusKm is the Earth's radius in kilometers (WGS84 mean radius)
	EarthRadiusKm = 6371.0

	// FeetToMeters converts feet to meters
	FeetToMeters = 0.3048

	// MetersToFeet converts meters to feet
	MetersToFeet = 3.28084

	// KnotsToKmh converts knots to kilometers per hour (1 nm = 1.852 km)
	KnotsToKmh = 1.852

	// StatuteMilesToKm converts statute miles to kilometers
	StatuteMilesToKm = 1.609344

	// InchesToMillimeters converts inches to millimeters
	InchesToMillimeters = 25.4
)

// Geographic represents a position on Earth's surface.
// Uses the WGS84 coordinate system (same as GPS).
type Geographic struct {
	// Latitude in decimal degrees (-90 to +90)
	// Positive = North, Negative = South
	Latitude float64 `json:"latitude"`

	// Longitude in decimal degrees (-180 to +180)
	// Positive = East, Negative = West
	Longitude float64 `json:"longitude"`

	// Altitude is carried through unchanged; its unit is whatever the
	// data source reports (feet for ADS-B, user choice for manual entry).
	Altitude float64 `json:"altitude"`
}

// Valid reports whether the latitude and longitude are finite and inside
// their ranges.
func (g Geographic) Valid() bool {
	if math.IsNaN(g.Latitude) || math.IsNaN(g.Longitude) {
		return false
	}
	return g.Latitude >= -90 && g.Latitude <= 90 &&
		g.Longitude >= -180 && g.Longitude <= 180
}

// NormalizeAzimuth ensures azimuth is in the range [0, 360).
func NormalizeAzimuth(azimuth float64) float64 {
	az := math.Mod(azimuth, 360.0)
	if az < 0 {
		az += 360.0
	}
	return az
}

// NormalizeLongitude wraps a longitude into [-180, 180].
func NormalizeLongitude(lon float64) float64 {
	if lon > 180.0 {
		return lon - 360.0
	}
	if lon < -180.0 {
		return lon + 360.0
	}
	return lon
}

// Bearing calculates the initial bearing (forward azimuth) from one point to another.
// Uses spherical trigonometry to calculate the bearing along a great circle.
// Returns bearing in degrees (0-360), where 0/360 = North, 90 = East, 180 = South, 270 = West.
func Bearing(from, to Geographic) float64 {
	lat1 := from.Latitude * DegreesToRadians
	lon1 := from.Longitude * DegreesToRadians
	lat2 := to.Latitude * DegreesToRadians
	lon2 := to.Longitude * DegreesToRadians

	dLon := lon2 - lon1
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return NormalizeAzimuth(math.Atan2(y, x) * RadiansToDegrees)
}

// DistanceKm calculates the great-circle distance between two points using
// the Haversine formula. Reports use it to describe how far the estimated
// center sits from the last known position; the estimation itself stays on
// the flat-earth approximation.
func DistanceKm(from, to Geographic) float64 {
	lat1Rad := from.Latitude * DegreesToRadians
	lon1Rad := from.Longitude * DegreesToRadians
	lat2Rad := to.Latitude * DegreesToRadians
	lon2Rad := to.Longitude * DegreesToRadians

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceNauticalMiles is DistanceKm expressed in nautical miles.
func DistanceNauticalMiles(from, to Geographic) float64 {
	return DistanceKm(from, to) / KnotsToKmh
}
