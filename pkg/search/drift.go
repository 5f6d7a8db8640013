package search

import (
	"math"

	"github.com/unklstewy/sar-scope/pkg/coordinates"
)

// WindDriftKm converts a wind observation into a planar drift vector.
//
// Wind speed is converted from knots to km/h and decomposed as
//
//	dx = v * sin(θ)   (east)
//	dy = v * cos(θ)   (north)
//
// with θ the reported wind direction in radians. The direction is therefore
// treated as the bearing the wind blows toward. If the observation follows
// the meteorological "from" convention the resulting center is mirrored
// through the last known position; that convention question is open and the
// sign is kept as is.
func WindDriftKm(w WeatherObservation) (dx, dy float64) {
	speedKmh := w.WindSpeedKt * coordinates.KnotsToKmh
	theta := w.WindDirectionDeg * coordinates.DegreesToRadians

	return speedKmh * math.Sin(theta), speedKmh * math.Cos(theta)
}

// MaxRangeKm returns how far the aircraft could have flown on its remaining
// fuel at its last ground speed:
//
//	range = groundSpeed * (fuelKg / consumptionKgPerMin) / 60
//
// A nil fuel status is not an error: the configured fallback range is
// returned instead (degraded mode). The ground speed is checked either way.
func (e *Estimator) MaxRangeKm(fuel *FuelStatus, kin KinematicState) (float64, error) {
	if kin.Speed == nil {
		return 0, missing("speed")
	}

	groundKmh := kin.Speed.GroundKmh
	if groundKmh < 0 || math.IsNaN(groundKmh) {
		return 0, domain("max range", groundKmh, "ground speed must not be negative")
	}

	if fuel == nil {
		return e.cfg.FallbackRangeKm, nil
	}
	if fuel.RemainingKg < 0 || math.IsNaN(fuel.RemainingKg) {
		return 0, domain("max range", fuel.RemainingKg, "remaining fuel must not be negative")
	}

	flightMinutes := fuel.RemainingKg / e.cfg.FuelConsumptionKgPerMin
	return groundKmh * flightMinutes / 60.0, nil
}
