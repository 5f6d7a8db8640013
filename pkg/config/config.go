package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration.
type Config struct {
	Search   SearchConfig   `json:"search"`
	Server   ServerConfig   `json:"server"`
	Auth     AuthConfig     `json:"auth"`
	Database DatabaseConfig `json:"database"`
	ADSB     ADSBConfig     `json:"adsb"`
	Weather  WeatherConfig  `json:"weather"`
	NATS     NATSConfig     `json:"nats"`
	Output   OutputConfig   `json:"output"`
}

// SearchConfig holds the fixed parameters of the estimation pipeline.
type SearchConfig struct {
	// FuelConsumptionKgPerMin is the assumed fuel burn rate (default: 0.8)
	FuelConsumptionKgPerMin float64 `json:"fuel_consumption_kg_per_min"`

	// FallbackRangeKm is the range used when fuel status is unknown (default: 100)
	FallbackRangeKm float64 `json:"fallback_range_km"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port string `json:"port"`

	// Host is the server bind address (default: "0.0.0.0")
	Host string `json:"host"`

	// AllowedOrigins lists CORS origins for browser map clients
	AllowedOrigins []string `json:"allowed_origins"`

	// StreamBatchSize is the number of waypoints per websocket message
	StreamBatchSize int `json:"stream_batch_size"`

	// MaxRadiusKm is the largest search radius a request may produce (default: 150)
	MaxRadiusKm float64 `json:"max_radius_km"`
}

// AuthConfig contains planner authentication settings.
type AuthConfig struct {
	// Enabled protects the planning endpoints with bearer tokens
	Enabled bool `json:"enabled"`

	// JWTSecret signs session tokens (should be loaded from environment)
	JWTSecret string `json:"jwt_secret"`

	// TokenHours is how long a session token is valid
	TokenHours int `json:"token_hours"`

	// Username of the planner account
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the planner password
	PasswordHash string `json:"password_hash"`
}

// DatabaseConfig contains the connection settings of the ADS-B collector
// database, used to look up the last known state of an aircraft.
type DatabaseConfig struct {
	// Enabled determines if the database lookup is available
	Enabled bool `json:"enabled"`

	// Host is the database server hostname
	Host string `json:"host"`

	// Port is the database server port
	Port int `json:"port"`

	// Database is the database name
	Database string `json:"database"`

	// Username for database authentication
	Username string `json:"username"`

	// Password for database authentication (should be loaded from environment)
	Password string `json:"password"`

	// SSLMode for PostgreSQL connections (disable, require, verify-ca, verify-full)
	SSLMode string `json:"ssl_mode"`

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int `json:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int `json:"max_idle_conns"`

	// ConnectAttempts is how often startup tries to reach the database (0 = until cancelled)
	ConnectAttempts int `json:"connect_attempts"`
}

// ADSBConfig contains the live ADS-B source used for last known state lookups.
type ADSBConfig struct {
	// BaseURL is the airplanes.live API base URL
	BaseURL string `json:"base_url"`

	// RateLimitSeconds is the minimum time between API calls in seconds
	RateLimitSeconds float64 `json:"rate_limit_seconds"`

	// TimeoutSeconds is the HTTP timeout per request
	TimeoutSeconds int `json:"timeout_seconds"`
}

// WeatherConfig contains the METAR source settings.
type WeatherConfig struct {
	// BaseURL is the aviationweather.gov data API base URL
	BaseURL string `json:"base_url"`

	// RequestsPerMinute limits the API call rate
	RequestsPerMinute int `json:"requests_per_minute"`

	// TimeoutSeconds is the HTTP timeout per request
	TimeoutSeconds int `json:"timeout_seconds"`

	// MaxRetries is the number of retries on transient failures
	MaxRetries int `json:"max_retries"`
}

// NATSConfig contains plan publishing settings.
type NATSConfig struct {
	// Enabled determines if computed plans are published
	Enabled bool `json:"enabled"`

	// URL is the NATS server URL
	URL string `json:"url"`

	// Subject is the subject plans are published on
	Subject string `json:"subject"`

	// ConnectRetries is how often a failed initial connection is retried
	ConnectRetries int `json:"connect_retries"`
}

// OutputConfig contains file output settings for the CLI.
type OutputConfig struct {
	// Directory receives generated files
	Directory string `json:"directory"`

	// MapFile is the HTML map file name
	MapFile string `json:"map_file"`

	// HeatmapFile is the PNG heatmap file name
	HeatmapFile string `json:"heatmap_file"`

	// HeatmapCellPixels is the pixel size of one grid cell in the heatmap
	HeatmapCellPixels int `json:"heatmap_cell_pixels"`
}

// Load reads configuration from a JSON file.
// If the file doesn't exist, returns a default configuration.
// A .env file in the working directory, when present, is loaded before
// environment overrides are applied.
func Load(path string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	cfg := DefaultConfig()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.applyEnvironmentOverrides()
		return cfg, nil
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON over the defaults so omitted sections keep sane values
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvironmentOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values the estimator and clients cannot work without.
func (c *Config) Validate() error {
	if c.Search.FuelConsumptionKgPerMin <= 0 {
		return fmt.Errorf("search.fuel_consumption_kg_per_min must be positive")
	}
	if c.Search.FallbackRangeKm <= 0 {
		return fmt.Errorf("search.fallback_range_km must be positive")
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth is enabled")
	}
	if c.NATS.Enabled && c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required when nats is enabled")
	}
	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			FuelConsumptionKgPerMin: 0.8,
			FallbackRangeKm:         100.0,
		},
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			AllowedOrigins:  []string{"*"},
			StreamBatchSize: 100,
			MaxRadiusKm:     150,
		},
		Auth: AuthConfig{
			Enabled:    false,
			TokenHours: 12,
			Username:   "planner",
		},
		Database: DatabaseConfig{
			Enabled:         false,
			Host:            "localhost",
			Port:            5432,
			Database:        "adsbscope",
			Username:        "adsbscope",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnectAttempts: 5,
		},
		ADSB: ADSBConfig{
			BaseURL:          "https://api.airplanes.live/v2",
			RateLimitSeconds: 1.0,
			TimeoutSeconds:   10,
		},
		Weather: WeatherConfig{
			BaseURL:           "https://aviationweather.gov/api/data",
			RequestsPerMinute: 30,
			TimeoutSeconds:    10,
			MaxRetries:        3,
		},
		NATS: NATSConfig{
			Enabled:        false,
			URL:            "nats://localhost:4222",
			Subject:        "sar.plans",
			ConnectRetries: 3,
		},
		Output: OutputConfig{
			Directory:         ".",
			MapFile:           "search_area_map.html",
			HeatmapFile:       "search_heatmap.png",
			HeatmapCellPixels: 8,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
// This allows secrets like passwords to be kept out of config files.
func (c *Config) applyEnvironmentOverrides() {
	if port := os.Getenv("SAR_SCOPE_PORT"); port != "" {
		c.Server.Port = port
	}
	if dbHost := os.Getenv("SAR_SCOPE_DB_HOST"); dbHost != "" {
		c.Database.Host = dbHost
	}
	if dbPassword := os.Getenv("SAR_SCOPE_DB_PASSWORD"); dbPassword != "" {
		c.Database.Password = dbPassword
	}
	if secret := os.Getenv("SAR_SCOPE_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if hash := os.Getenv("SAR_SCOPE_PASSWORD_HASH"); hash != "" {
		c.Auth.PasswordHash = hash
	}
	if natsURL := os.Getenv("SAR_SCOPE_NATS_URL"); natsURL != "" {
		c.NATS.URL = natsURL
	}
	if rate := os.Getenv("SAR_SCOPE_FUEL_RATE"); rate != "" {
		if v, err := strconv.ParseFloat(rate, 64); err == nil {
			c.Search.FuelConsumptionKgPerMin = v
		}
	}
}
