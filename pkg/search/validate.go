package search

import (
	"math"
)

// Validate checks the numeric ranges of every present input field. Absent
// fields are not reported here; EstimateArea reports them as missing data.
// Collaborators that parse user input call Validate before Plan.
func (in Input) Validate() error {
	k := in.Kinematics

	if p := k.Position; p != nil {
		if err := finite("latitude", p.Latitude); err != nil {
			return err
		}
		if p.Latitude < -90 || p.Latitude > 90 {
			return domain("latitude", p.Latitude, "must be within [-90, 90]")
		}
		if err := finite("longitude", p.Longitude); err != nil {
			return err
		}
		if p.Longitude < -180 || p.Longitude > 180 {
			return domain("longitude", p.Longitude, "must be within [-180, 180]")
		}
		if err := finite("altitude", p.Altitude); err != nil {
			return err
		}
	}

	if s := k.Speed; s != nil {
		if err := nonNegative("ground speed", s.GroundKmh); err != nil {
			return err
		}
		if err := finite("vertical speed", s.Vertical); err != nil {
			return err
		}
	}

	if k.Heading != nil {
		if err := finite("heading", *k.Heading); err != nil {
			return err
		}
	}

	if w := in.Weather; w != nil {
		if err := nonNegative("wind speed", w.WindSpeedKt); err != nil {
			return err
		}
		if err := finite("wind direction", w.WindDirectionDeg); err != nil {
			return err
		}
		if err := nonNegative("visibility", w.VisibilityKm); err != nil {
			return err
		}
		if err := nonNegative("precipitation", w.PrecipitationMmHr); err != nil {
			return err
		}
	}

	if f := in.Fuel; f != nil {
		if err := nonNegative("fuel", f.RemainingKg); err != nil {
			return err
		}
	}

	return nil
}

func finite(op string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return domain(op, v, "must be a finite number")
	}
	return nil
}

func nonNegative(op string, v float64) error {
	if err := finite(op, v); err != nil {
		return err
	}
	if v < 0 {
		return domain(op, v, "must not be negative")
	}
	return nil
}
