package search

import (
	"math"

	"github.com/unklstewy/sar-scope/pkg/coordinates"
)

// KmPerDegreeLatitude is the flat-earth scale used by every projection in
// this package. 1 degree of latitude = 111.32 km.
const KmPerDegreeLatitude = 111.32

// polarEpsilon bounds cos(latitude) away from zero. cos(±90°) evaluates to
// ~6e-17 in floating point rather than exactly 0.
const polarEpsilon = 1e-12

// ToGeo projects a planar offset (xKm east, yKm north) from ref onto
// latitude/longitude. Longitude degrees per km are scaled by 1/cos(lat) of
// the reference and wrapped across the antimeridian. The reference altitude
// is carried through unchanged.
//
// Returns a *DomainError when the reference latitude is polar or not finite.
func ToGeo(xKm, yKm float64, ref coordinates.Geographic) (coordinates.Geographic, error) {
	cosLat, err := longitudeScale(ref)
	if err != nil {
		return coordinates.Geographic{}, err
	}

	return coordinates.Geographic{
		Latitude:  ref.Latitude + yKm/KmPerDegreeLatitude,
		Longitude: coordinates.NormalizeLongitude(ref.Longitude + xKm/(KmPerDegreeLatitude*cosLat)),
		Altitude:  ref.Altitude,
	}, nil
}

// FromGeo is the inverse of ToGeo: it returns the planar offset (xKm east,
// yKm north) of p relative to ref.
func FromGeo(p, ref coordinates.Geographic) (xKm, yKm float64, err error) {
	cosLat, err := longitudeScale(ref)
	if err != nil {
		return 0, 0, err
	}

	xKm = coordinates.NormalizeLongitude(p.Longitude-ref.Longitude) * KmPerDegreeLatitude * cosLat
	yKm = (p.Latitude - ref.Latitude) * KmPerDegreeLatitude
	return xKm, yKm, nil
}

func longitudeScale(ref coordinates.Geographic) (float64, error) {
	if math.IsNaN(ref.Latitude) || math.IsInf(ref.Latitude, 0) ||
		math.IsNaN(ref.Longitude) || math.IsInf(ref.Longitude, 0) {
		return 0, domain("geo projection", ref.Latitude, "reference position is not finite")
	}

	cosLat := math.Cos(ref.Latitude * coordinates.DegreesToRadians)
	if math.Abs(cosLat) < polarEpsilon {
		return 0, domain("geo projection", ref.Latitude, "reference latitude is polar")
	}
	return cosLat, nil
}
