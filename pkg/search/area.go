package search

import (
	"math"
)

// EstimateArea projects the probable crash-site center and the search
// radius from the last known state, the weather and the (optional) fuel.
//
// Position, speed, heading and weather must all be present, otherwise a
// *MissingDataError naming the first absent field is returned. Heading is
// part of that precondition even though no formula reads it.
//
// The center is the last known position displaced by the wind drift vector;
// the radius is RadiusFraction of the maximum range. The center is a surface
// position, so its altitude is zero.
func (e *Estimator) EstimateArea(kin KinematicState, weather *WeatherObservation, fuel *FuelStatus) (SearchArea, error) {
	switch {
	case kin.Position == nil:
		return SearchArea{}, missing("position")
	case kin.Speed == nil:
		return SearchArea{}, missing("speed")
	case kin.Heading == nil:
		return SearchArea{}, missing("heading")
	case weather == nil:
		return SearchArea{}, missing("weather")
	}

	maxRange, err := e.MaxRangeKm(fuel, kin)
	if err != nil {
		return SearchArea{}, err
	}

	dx, dy := WindDriftKm(*weather)
	center, err := ToGeo(dx, dy, *kin.Position)
	if err != nil {
		return SearchArea{}, err
	}
	center.Altitude = 0

	radius := maxRange * RadiusFraction
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return SearchArea{}, domain("search area", radius, "search radius must be positive")
	}

	return SearchArea{Center: center, RadiusKm: radius}, nil
}
