// Package api serves the search planner over HTTP: a JSON planning endpoint,
// a websocket endpoint that streams waypoints in batches, and lookups of the
// last known aircraft state and local weather.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/unklstewy/sar-scope/internal/auth"
	"github.com/unklstewy/sar-scope/pkg/adsb"
	"github.com/unklstewy/sar-scope/pkg/search"
	"github.com/unklstewy/sar-scope/pkg/weather"
)

const (
	// DefaultStreamBatchSize is the number of waypoints per websocket message
	// when Options.StreamBatchSize is not set.
	DefaultStreamBatchSize = 100

	// DefaultMaxRadiusKm caps the search radius of a single request when
	// Options.MaxRadiusKm is not set.
	DefaultMaxRadiusKm = 150.0
)

// WeatherSource looks up the latest observation of a reporting station.
// *weather.Client satisfies it.
type WeatherSource interface {
	GetObservation(ctx context.Context, station string) (*weather.Metar, error)
}

// HealthChecker is implemented by aircraft sources backed by a connection
// that can go away, such as *db.AircraftRepository.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// PlanPublisher forwards computed plans. *publish.Publisher satisfies it.
type PlanPublisher interface {
	Publish(plan *search.Plan, icao string) (string, error)
}

// Options wires the server's collaborators. Only Estimator is required.
type Options struct {
	Estimator *search.Estimator

	// Auth protects the planning endpoints; nil disables authentication
	Auth *auth.Service

	// Aircraft resolves ICAO addresses to a last known state
	Aircraft adsb.DataSource

	// Weather resolves METAR station identifiers to observations
	Weather WeatherSource

	// Publisher receives every plan computed over HTTP
	Publisher PlanPublisher

	AllowedOrigins  []string
	StreamBatchSize int

	// MaxRadiusKm rejects requests whose search radius would exceed it
	MaxRadiusKm float64
}

// Server holds the HTTP router and its dependencies
type Server struct {
	router    *chi.Mux
	estimator *search.Estimator
	authSvc   *auth.Service
	aircraft  adsb.DataSource
	weather   WeatherSource
	publisher PlanPublisher
	origins   []string
	batchSize int
	maxRadius float64
}

type contextKey string

const claimsKey contextKey = "claims"

// New creates a server and sets up its routes.
func New(opts Options) *Server {
	if opts.StreamBatchSize <= 0 {
		opts.StreamBatchSize = DefaultStreamBatchSize
	}
	if opts.MaxRadiusKm <= 0 {
		opts.MaxRadiusKm = DefaultMaxRadiusKm
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		router:    chi.NewRouter(),
		estimator: opts.Estimator,
		authSvc:   opts.Auth,
		aircraft:  opts.Aircraft,
		weather:   opts.Weather,
		publisher: opts.Publisher,
		origins:   opts.AllowedOrigins,
		batchSize: opts.StreamBatchSize,
		maxRadius: opts.MaxRadiusKm,
	}
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", s.handleLogin)

		// Protected routes (require authentication when enabled)
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.With(s.requireRole(auth.RolePlanner)).Post("/search/plan", s.handlePlan)
			r.With(s.requireRole(auth.RolePlanner)).Get("/search/stream", s.handleStream)

			r.Get("/aircraft/{icao}", s.handleGetAircraft)
			r.Get("/weather/{station}", s.handleGetWeather)
		})
	})
}

// authMiddleware validates the bearer token. Websocket clients cannot set
// headers from a browser, so a token query parameter is accepted as well.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authSvc == nil {
			next.ServeHTTP(w, r)
			return
		}

		var token string
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}
			token = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			respondError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		claims, err := s.authSvc.ValidateToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole rejects requests whose session role is below role.
func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.authSvc == nil {
				next.ServeHTTP(w, r)
				return
			}
			claims := claimsFrom(r.Context())
			if claims == nil || !auth.HasRole(claims.Role, role) {
				respondError(w, http.StatusForbidden, auth.ErrUnauthorized.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func claimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("⚠️  Failed to write response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}
