package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/unklstewy/sar-scope/internal/auth"
	"github.com/unklstewy/sar-scope/pkg/adsb"
	"github.com/unklstewy/sar-scope/pkg/apiclient"
	"github.com/unklstewy/sar-scope/pkg/search"
	"github.com/unklstewy/sar-scope/pkg/weather"
)

var (
	errAircraftNotFound  = errors.New("aircraft not found")
	errSourceUnavailable = errors.New("data source not configured")
	errBadRequest        = errors.New("invalid request")
	errRadiusLimit       = errors.New("search radius exceeds the server limit")
)

// PlanRequest is the body of a planning request. Explicit kinematics and
// weather win over the lookups by ICAO address and METAR station.
type PlanRequest struct {
	ICAO         string                     `json:"icao,omitempty"`
	Kinematics   *search.KinematicState     `json:"kinematics,omitempty"`
	Weather      *search.WeatherObservation `json:"weather,omitempty"`
	Fuel         *search.FuelStatus         `json:"fuel,omitempty"`
	MetarStation string                     `json:"metar_station,omitempty"`
}

// PlanResponse is returned by the planning endpoint.
type PlanResponse struct {
	// ID is the published plan identifier; empty when publishing is off
	ID   string       `json:"id,omitempty"`
	ICAO string       `json:"icao,omitempty"`
	Plan *search.Plan `json:"plan"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]interface{}{
		"status":       "ok",
		"auth_enabled": s.authSvc != nil,
		"time":         time.Now().UTC(),
	}

	if hc, ok := s.aircraft.(HealthChecker); ok {
		healthy := hc.Healthy(r.Context())
		body["aircraft_source"] = healthy
		if !healthy {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
	}

	respondJSON(w, status, body)
}

// handleLogin exchanges planner credentials for a session token
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.authSvc == nil {
		respondError(w, http.StatusNotFound, "authentication is disabled")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, claims, err := s.authSvc.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"token":      token,
		"expires_at": claims.ExpiresAt.Time,
		"user": map[string]interface{}{
			"username": claims.Username,
			"role":     claims.Role,
		},
	})
}

// handlePlan runs the whole pipeline for one request
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := s.plan(r.Context(), req)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAircraft(w http.ResponseWriter, r *http.Request) {
	ac, err := s.lookupAircraft(r.Context(), chi.URLParam(r, "icao"))
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"aircraft":   ac,
		"kinematics": ac.Kinematics(),
		"age_sec":    ac.Age(time.Now()).Seconds(),
	})
}

func (s *Server) handleGetWeather(w http.ResponseWriter, r *http.Request) {
	m, err := s.lookupWeather(r.Context(), chi.URLParam(r, "station"))
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"metar":       m,
		"observation": m.Observation(),
	})
}

// plan resolves the request into an input, runs the estimator and publishes
// the result. A publishing failure is logged and does not fail the request.
func (s *Server) plan(ctx context.Context, req PlanRequest) (*PlanResponse, error) {
	in, err := s.resolveInput(ctx, req)
	if err != nil {
		return nil, err
	}

	area, err := s.estimator.EstimateArea(in.Kinematics, in.Weather, in.Fuel)
	if err != nil {
		return nil, err
	}
	if area.RadiusKm > s.maxRadius {
		return nil, fmt.Errorf("radius %.1f km, limit %.1f km: %w", area.RadiusKm, s.maxRadius, errRadiusLimit)
	}

	p, err := s.estimator.Plan(in)
	if err != nil {
		return nil, err
	}

	resp := &PlanResponse{ICAO: adsb.NormalizeICAO(req.ICAO), Plan: p}
	if s.publisher != nil {
		id, err := s.publisher.Publish(p, resp.ICAO)
		if err != nil {
			log.Printf("⚠️  Failed to publish plan: %v", err)
		} else {
			resp.ID = id
		}
	}
	return resp, nil
}

func (s *Server) resolveInput(ctx context.Context, req PlanRequest) (search.Input, error) {
	in := search.Input{
		Weather: req.Weather,
		Fuel:    req.Fuel,
	}

	switch {
	case req.Kinematics != nil:
		in.Kinematics = *req.Kinematics
	case req.ICAO != "":
		ac, err := s.lookupAircraft(ctx, req.ICAO)
		if err != nil {
			return search.Input{}, err
		}
		in.Kinematics = ac.Kinematics()
	}

	if in.Weather == nil && req.MetarStation != "" {
		m, err := s.lookupWeather(ctx, req.MetarStation)
		if err != nil {
			return search.Input{}, err
		}
		obs := m.Observation()
		in.Weather = &obs
	}

	if err := in.Validate(); err != nil {
		return search.Input{}, err
	}
	return in, nil
}

func (s *Server) lookupAircraft(ctx context.Context, icao string) (*adsb.Aircraft, error) {
	if s.aircraft == nil {
		return nil, fmt.Errorf("aircraft lookup: %w", errSourceUnavailable)
	}
	icao = adsb.NormalizeICAO(icao)
	if icao == "" {
		return nil, fmt.Errorf("icao address is required: %w", errBadRequest)
	}

	ac, err := s.aircraft.GetAircraftByICAO(ctx, icao)
	if err != nil {
		return nil, fmt.Errorf("failed to look up aircraft %s: %w", icao, err)
	}
	if ac == nil {
		return nil, fmt.Errorf("%s: %w", icao, errAircraftNotFound)
	}
	return ac, nil
}

func (s *Server) lookupWeather(ctx context.Context, station string) (*weather.Metar, error) {
	if s.weather == nil {
		return nil, fmt.Errorf("weather lookup: %w", errSourceUnavailable)
	}
	m, err := s.weather.GetObservation(ctx, station)
	if err != nil {
		return nil, fmt.Errorf("failed to get weather: %w", err)
	}
	return m, nil
}

// statusFor maps pipeline and lookup errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case search.IsMissingData(err), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case search.IsDomain(err), errors.Is(err, errRadiusLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errAircraftNotFound),
		errors.Is(err, weather.ErrNoObservation),
		errors.Is(err, apiclient.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errSourceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
