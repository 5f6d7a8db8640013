// Package weather fetches METAR observations from the aviationweather.gov
// data API and converts them into the weather input of a search estimate.
//
// API Documentation: https://aviationweather.gov/data/api/
package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/unklstewy/sar-scope/pkg/apiclient"
	"github.com/unklstewy/sar-scope/pkg/coordinates"
	"github.com/unklstewy/sar-scope/pkg/search"
)

const (
	// BaseURL is the aviationweather.gov data API base URL
	BaseURL = "https://aviationweather.gov/api/data"

	// ReportedVisibilityCapKm is "10+" statute miles expressed in km
	ReportedVisibilityCapKm = 10 * coordinates.StatuteMilesToKm
)

// ErrNoObservation is returned when no station reported a METAR.
var ErrNoObservation = errors.New("no METAR observation available")

// Client is an aviationweather.gov METAR client.
type Client struct {
	api   *apiclient.Client
	retry apiclient.RetryConfig
}

// Config contains configuration for the weather client.
type Config struct {
	BaseURL           string
	RequestsPerMinute int
	Timeout           time.Duration
	MaxRetries        int
}

// NewClient creates a new METAR client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.RequestsPerMinute <= 0 {
		// The API asks for no more than 100 requests per minute
		cfg.RequestsPerMinute = 30
	}

	retry := apiclient.DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries

	return &Client{
		api: apiclient.New(apiclient.Config{
			BaseURL:           strings.TrimRight(cfg.BaseURL, "/"),
			RequestsPerSecond: float64(cfg.RequestsPerMinute) / 60.0,
			Timeout:           cfg.Timeout,
			UserAgent:         "sar-scope",
		}),
		retry: retry,
	}
}

// Metar is one decoded METAR report.
type Metar struct {
	Station     string    `json:"station"`
	Name        string    `json:"name"`
	ObservedAt  time.Time `json:"observed_at"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Raw         string    `json:"raw"`
	WxString    string    `json:"wx_string"`
	TempC       *float64  `json:"temp_c,omitempty"`
	WindSpeedKt float64   `json:"wind_speed_kt"`

	// WindDirectionDeg is 0 for variable or calm wind
	WindDirectionDeg float64 `json:"wind_direction_deg"`
	WindVariable     bool    `json:"wind_variable"`

	VisibilityKm float64 `json:"visibility_km"`

	// PrecipitationMmHr comes from the reported hourly amount, or from
	// the present weather intensity when no amount was reported
	PrecipitationMmHr float64 `json:"precipitation_mm_hr"`
}

// Observation converts the report into a search weather observation.
func (m Metar) Observation() search.WeatherObservation {
	return search.WeatherObservation{
		WindSpeedKt:       m.WindSpeedKt,
		WindDirectionDeg:  m.WindDirectionDeg,
		VisibilityKm:      m.VisibilityKm,
		PrecipitationMmHr: m.PrecipitationMmHr,
	}
}

// Position returns the station location.
func (m Metar) Position() coordinates.Geographic {
	return coordinates.Geographic{Latitude: m.Latitude, Longitude: m.Longitude}
}

// GetObservation returns the latest METAR for a station (e.g. "KCLT").
func (c *Client) GetObservation(ctx context.Context, station string) (*Metar, error) {
	station = strings.ToUpper(strings.TrimSpace(station))
	if station == "" {
		return nil, fmt.Errorf("station identifier is required")
	}

	q := url.Values{}
	q.Set("ids", station)
	q.Set("format", "json")

	reports, err := c.fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("metar %s: %w", station, err)
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("metar %s: %w", station, ErrNoObservation)
	}

	m, err := reports[0].decode()
	if err != nil {
		return nil, fmt.Errorf("metar %s: %w", station, err)
	}
	return &m, nil
}

// GetObservationNear returns the METAR of the reporting station closest to
// pos within radiusKm.
func (c *Client) GetObservationNear(ctx context.Context, pos coordinates.Geographic, radiusKm float64) (*Metar, error) {
	if !pos.Valid() {
		return nil, fmt.Errorf("invalid position %+v", pos)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %f", radiusKm)
	}

	dLat := radiusKm / search.KmPerDegreeLatitude
	dLon := dLat
	if cosLat := math.Cos(pos.Latitude * coordinates.DegreesToRadians); cosLat > 0.01 {
		dLon = dLat / cosLat
	}

	q := url.Values{}
	q.Set("bbox", fmt.Sprintf("%.4f,%.4f,%.4f,%.4f",
		math.Max(pos.Latitude-dLat, -90), math.Max(pos.Longitude-dLon, -180),
		math.Min(pos.Latitude+dLat, 90), math.Min(pos.Longitude+dLon, 180)))
	q.Set("format", "json")

	reports, err := c.fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("metar near %.4f,%.4f: %w", pos.Latitude, pos.Longitude, err)
	}

	candidates := make([]Metar, 0, len(reports))
	for _, r := range reports {
		m, err := r.decode()
		if err != nil {
			continue
		}
		if coordinates.DistanceKm(pos, m.Position()) <= radiusKm {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoObservation
	}

	sort.Slice(candidates, func(i, j int) bool {
		return coordinates.DistanceKm(pos, candidates[i].Position()) <
			coordinates.DistanceKm(pos, candidates[j].Position())
	})
	return &candidates[0], nil
}

func (c *Client) fetch(ctx context.Context, q url.Values) ([]metarJSON, error) {
	reports, err := apiclient.RetryWithBackoffResult(ctx, c.retry, func() ([]metarJSON, error) {
		var r []metarJSON
		err := c.api.GetJSON(ctx, "/metar?"+q.Encode(), &r)
		return r, err
	})
	if errors.Is(err, apiclient.ErrNotFound) {
		// The API answers 204 when nothing matched
		return nil, nil
	}
	return reports, err
}

// metarJSON is one element of the format=json response.
type metarJSON struct {
	IcaoID     string      `json:"icaoId"`
	Name       string      `json:"name"`
	ObsTime    int64       `json:"obsTime"`
	ReportTime string      `json:"reportTime"`
	Lat        *float64    `json:"lat"`
	Lon        *float64    `json:"lon"`
	Temp       *float64    `json:"temp"`
	Wdir       interface{} `json:"wdir"`
	Wspd       *float64    `json:"wspd"`
	Visib      interface{} `json:"visib"`
	Precip     *float64    `json:"precip"`
	WxString   string      `json:"wxString"`
	RawOb      string      `json:"rawOb"`
}

func (r metarJSON) decode() (Metar, error) {
	if r.Lat == nil || r.Lon == nil {
		return Metar{}, fmt.Errorf("report from %s has no station position", r.IcaoID)
	}

	m := Metar{
		Station:   r.IcaoID,
		Name:      r.Name,
		Latitude:  *r.Lat,
		Longitude: *r.Lon,
		Raw:       r.RawOb,
		WxString:  r.WxString,
		TempC:     r.Temp,
	}

	switch {
	case r.ObsTime > 0:
		m.ObservedAt = time.Unix(r.ObsTime, 0).UTC()
	case r.ReportTime != "":
		if t, err := time.Parse(time.RFC3339, r.ReportTime); err == nil {
			m.ObservedAt = t.UTC()
		} else if t, err := time.Parse("2006-01-02 15:04:05", r.ReportTime); err == nil {
			m.ObservedAt = t.UTC()
		}
	}

	if r.Wspd != nil {
		m.WindSpeedKt = *r.Wspd
	}
	m.WindDirectionDeg, m.WindVariable = parseWindDirection(r.Wdir)

	vis, err := parseVisibility(r.Visib)
	if err != nil {
		return Metar{}, fmt.Errorf("report from %s: %w", r.IcaoID, err)
	}
	m.VisibilityKm = vis

	if r.Precip != nil {
		m.PrecipitationMmHr = *r.Precip * coordinates.InchesToMillimeters
	} else {
		m.PrecipitationMmHr = PrecipitationFromWx(r.WxString)
	}

	return m, nil
}

// parseWindDirection handles numeric directions and "VRB".
func parseWindDirection(val interface{}) (deg float64, variable bool) {
	switch v := val.(type) {
	case float64:
		return coordinates.NormalizeAzimuth(v), false
	case string:
		if strings.EqualFold(v, "VRB") {
			return 0, true
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return coordinates.NormalizeAzimuth(f), false
		}
	}
	return 0, false
}

// parseVisibility converts statute miles to km. The API reports "10+" for
// unrestricted visibility and fractions such as "1/2".
func parseVisibility(val interface{}) (float64, error) {
	switch v := val.(type) {
	case nil:
		return ReportedVisibilityCapKm, nil
	case float64:
		return v * coordinates.StatuteMilesToKm, nil
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(v), "+")
		if s == "" {
			return ReportedVisibilityCapKm, nil
		}
		miles, err := parseStatuteMiles(s)
		if err != nil {
			return 0, fmt.Errorf("bad visibility %q: %w", v, err)
		}
		return miles * coordinates.StatuteMilesToKm, nil
	}
	return 0, fmt.Errorf("bad visibility type %T", val)
}

// parseStatuteMiles accepts "3", "0.5", "1/2" and "1 1/2".
func parseStatuteMiles(s string) (float64, error) {
	total := 0.0
	for _, part := range strings.Fields(s) {
		if num, den, ok := strings.Cut(part, "/"); ok {
			n, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, err
			}
			d, err := strconv.ParseFloat(den, 64)
			if err != nil {
				return 0, err
			}
			if d == 0 {
				return 0, fmt.Errorf("zero denominator")
			}
			total += n / d
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, err
		}
		total += f
	}
	return total, nil
}

// Precipitation rates assumed per METAR intensity qualifier, mm/hr.
const (
	lightPrecipMmHr    = 1.0
	moderatePrecipMmHr = 4.0
	heavyPrecipMmHr    = 8.0
)

var precipCodes = []string{"RA", "SN", "DZ", "GR", "GS", "PL", "SG", "IC", "UP"}

// PrecipitationFromWx estimates a precipitation rate from the METAR
// present weather group ("-RA", "+TSRA", "SN BR").
func PrecipitationFromWx(wx string) float64 {
	rate := 0.0
	for _, group := range strings.Fields(wx) {
		if strings.HasPrefix(group, "VC") {
			continue
		}
		intensity := moderatePrecipMmHr
		switch {
		case strings.HasPrefix(group, "+"):
			intensity = heavyPrecipMmHr
		case strings.HasPrefix(group, "-"):
			intensity = lightPrecipMmHr
		}
		for _, code := range precipCodes {
			if strings.Contains(group, code) {
				rate = math.Max(rate, intensity)
				break
			}
		}
	}
	return rate
}
