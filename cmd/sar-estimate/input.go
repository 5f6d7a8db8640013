package main

import (
	"flag"

	"github.com/unklstewy/sar-scope/pkg/coordinates"
	"github.com/unklstewy/sar-scope/pkg/search"
)

// manualFlags holds the values that can be typed on the command line.
type manualFlags struct {
	lat, lon, alt   float64
	speed, vspeed   float64
	heading         float64
	windSpeed       float64
	windDir         float64
	visibility      float64
	precip          float64
	fuel            float64
	fuelConsumption float64
}

var weatherFlags = []string{"wind-speed", "wind-dir", "visibility", "precip"}

func (m *manualFlags) register(fs *flag.FlagSet) {
	fs.Float64Var(&m.lat, "lat", 0, "Last known latitude in degrees")
	fs.Float64Var(&m.lon, "lon", 0, "Last known longitude in degrees")
	fs.Float64Var(&m.alt, "alt", 0, "Last known altitude")
	fs.Float64Var(&m.speed, "speed", 0, "Ground speed in km/h")
	fs.Float64Var(&m.vspeed, "vspeed", 0, "Vertical speed")
	fs.Float64Var(&m.heading, "heading", 0, "Heading in degrees")
	fs.Float64Var(&m.windSpeed, "wind-speed", 0, "Wind speed in knots")
	fs.Float64Var(&m.windDir, "wind-dir", 0, "Wind direction in degrees")
	fs.Float64Var(&m.visibility, "visibility", 10, "Visibility in km")
	fs.Float64Var(&m.precip, "precip", 0, "Precipitation in mm/hr")
	fs.Float64Var(&m.fuel, "fuel", 0, "Remaining fuel in kg (omit if unknown)")
	fs.Float64Var(&m.fuelConsumption, "fuel-rate", 0, "Fuel consumption in kg/min (default from config)")
}

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// input builds a search input from the flags that were set. A field stays
// nil when none of its flags were given so the estimator reports it as
// missing. Weather is present as soon as one weather flag is given; its
// other components keep their flag defaults.
func (m manualFlags) input(set map[string]bool) search.Input {
	var in search.Input

	if set["lat"] && set["lon"] {
		in.Kinematics.Position = &coordinates.Geographic{
			Latitude:  m.lat,
			Longitude: m.lon,
			Altitude:  m.alt,
		}
	}
	if set["speed"] {
		in.Kinematics.Speed = &search.Speed{GroundKmh: m.speed, Vertical: m.vspeed}
	}
	if set["heading"] {
		in.Kinematics.Heading = search.Float64(m.heading)
	}

	for _, name := range weatherFlags {
		if set[name] {
			in.Weather = &search.WeatherObservation{
				WindSpeedKt:       m.windSpeed,
				WindDirectionDeg:  m.windDir,
				VisibilityKm:      m.visibility,
				PrecipitationMmHr: m.precip,
			}
			break
		}
	}

	if set["fuel"] {
		in.Fuel = &search.FuelStatus{RemainingKg: m.fuel}
	}

	return in
}

// merge fills the fields missing from in with the values of fallback.
// Values typed on the command line win over looked up ones.
func merge(in, fallback search.Input) search.Input {
	if in.Kinematics.Position == nil {
		in.Kinematics.Position = fallback.Kinematics.Position
	}
	if in.Kinematics.Speed == nil {
		in.Kinematics.Speed = fallback.Kinematics.Speed
	}
	if in.Kinematics.Heading == nil {
		in.Kinematics.Heading = fallback.Kinematics.Heading
	}
	if in.Weather == nil {
		in.Weather = fallback.Weather
	}
	if in.Fuel == nil {
		in.Fuel = fallback.Fuel
	}
	return in
}
