package adsb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/unklstewy/sar-scope/pkg/apiclient"
)

// DefaultAirplanesLiveURL is the public airplanes.live API.
const DefaultAirplanesLiveURL = "https://api.airplanes.live/v2"

// AirplanesLiveClient implements the DataSource interface for airplanes.live API.
// API Documentation: https://airplanes.live/api-guide/
// Rate Limit: 1 request per second
type AirplanesLiveClient struct {
	api   *apiclient.Client
	retry apiclient.RetryConfig
}

// AirplanesLiveConfig contains configuration for the airplanes.live client.
type AirplanesLiveConfig struct {
	// BaseURL is the API base URL (default: https://api.airplanes.live/v2)
	BaseURL string

	// RateLimitSeconds is the minimum time between requests (default: 1)
	RateLimitSeconds float64

	// Timeout is the HTTP timeout per request (default: 10s)
	Timeout time.Duration

	// Retry controls retries on rate limits and server errors
	Retry apiclient.RetryConfig
}

// NewAirplanesLiveClient creates a new airplanes.live API client.
func NewAirplanesLiveClient(cfg AirplanesLiveConfig) *AirplanesLiveClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAirplanesLiveURL
	}
	if cfg.RateLimitSeconds <= 0 {
		cfg.RateLimitSeconds = 1.0
	}
	if cfg.Retry == (apiclient.RetryConfig{}) {
		cfg.Retry = apiclient.DefaultRetryConfig()
	}

	return &AirplanesLiveClient{
		api: apiclient.New(apiclient.Config{
			BaseURL:           cfg.BaseURL,
			RequestsPerSecond: 1.0 / cfg.RateLimitSeconds,
			Timeout:           cfg.Timeout,
			UserAgent:         "sar-scope",
		}),
		retry: cfg.Retry,
	}
}

// GetAircraftByICAO returns a specific aircraft by its ICAO hex code.
// Uses the /hex/[hex] endpoint.
func (c *AirplanesLiveClient) GetAircraftByICAO(ctx context.Context, icao string) (*Aircraft, error) {
	icao = NormalizeICAO(icao)
	if icao == "" {
		return nil, fmt.Errorf("icao address is required")
	}

	apiResp, err := apiclient.RetryWithBackoffResult(ctx, c.retry, func() (airplanesLiveResponse, error) {
		var r airplanesLiveResponse
		err := c.api.GetJSON(ctx, "/hex/"+icao, &r)
		return r, err
	})
	if errors.Is(err, apiclient.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch aircraft %s: %w", icao, err)
	}

	// Check if aircraft was found
	if len(apiResp.Aircraft) == 0 {
		return nil, nil
	}

	ac := convertAirplanesLiveAircraft(apiResp.Aircraft[0], time.Now().UTC())
	return &ac, nil
}

// Close cleanly shuts down the client.
// For airplanes.live, this is a no-op as there are no persistent connections.
func (c *AirplanesLiveClient) Close() error {
	return nil
}

// airplanesLiveResponse represents the JSON response from airplanes.live API.
type airplanesLiveResponse struct {
	// Aircraft is the array of aircraft data
	Aircraft []airplanesLiveAircraft `json:"ac"`

	// Total number of aircraft
	Total int `json:"total"`

	// Current timestamp
	Now float64 `json:"now"`
}

// airplanesLiveAircraft represents a single aircraft in the airplanes.live API response.
// Field documentation: https://airplanes.live/adsb-field-explanations/
type airplanesLiveAircraft struct {
	Hex    string   `json:"hex"`
	Flight *string  `json:"flight"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`

	// AltBaro and AltGeom are feet, or the string "ground"
	AltBaro interface{} `json:"alt_baro"`
	AltGeom interface{} `json:"alt_geom"`

	// Gs is ground speed in knots
	Gs *float64 `json:"gs"`

	// Track is ground track in degrees (0-360)
	Track *float64 `json:"track"`

	// BaroRate is barometric vertical rate in feet/minute
	BaroRate *float64 `json:"baro_rate"`
	GeomRate *float64 `json:"geom_rate"`

	// Seen is seconds since last message
	Seen *float64 `json:"seen"`

	// SeenPos is seconds since last position message
	SeenPos *float64 `json:"seen_pos"`
}

// convertAirplanesLiveAircraft converts an airplanes.live aircraft to our Aircraft type.
func convertAirplanesLiveAircraft(ac airplanesLiveAircraft, now time.Time) Aircraft {
	aircraft := Aircraft{
		ICAO: ac.Hex,
	}

	if ac.Flight != nil {
		aircraft.Callsign = strings.TrimSpace(*ac.Flight)
	}

	if ac.Lat != nil && ac.Lon != nil {
		aircraft.Latitude = *ac.Lat
		aircraft.Longitude = *ac.Lon
		aircraft.HasPosition = true
	}

	// Altitude - prefer geometric (GPS) over barometric
	if alt := parseAltitude(ac.AltGeom); alt != nil {
		aircraft.Altitude = *alt
	} else if alt := parseAltitude(ac.AltBaro); alt != nil {
		aircraft.Altitude = *alt
	}

	if ac.Gs != nil && ac.Track != nil {
		aircraft.GroundSpeed = *ac.Gs
		aircraft.Track = *ac.Track
		aircraft.HasVelocity = true
	}
	if ac.BaroRate != nil {
		aircraft.VerticalRate = *ac.BaroRate
	} else if ac.GeomRate != nil {
		aircraft.VerticalRate = *ac.GeomRate
	}

	// Timestamp from the position age when known, else the message age
	seen := ac.SeenPos
	if seen == nil {
		seen = ac.Seen
	}
	if seen != nil {
		aircraft.LastSeen = now.Add(-time.Duration(*seen * float64(time.Second)))
	} else {
		aircraft.LastSeen = now
	}

	return aircraft
}

// parseAltitude safely extracts altitude from interface{} which can be float64 or string.
// Returns nil if the value is invalid; "ground" is reported as 0.
func parseAltitude(val interface{}) *float64 {
	switch v := val.(type) {
	case float64:
		return &v
	case string:
		if v == "ground" {
			zero := 0.0
			return &zero
		}
		return nil
	default:
		return nil
	}
}
