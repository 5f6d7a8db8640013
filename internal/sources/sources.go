// Package sources builds the estimator and its data collaborators from the
// application configuration. The command line tool, the terminal form and
// the server all wire their inputs through here.
package sources

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/unklstewy/sar-scope/internal/db"
	"github.com/unklstewy/sar-scope/internal/publish"
	"github.com/unklstewy/sar-scope/pkg/adsb"
	"github.com/unklstewy/sar-scope/pkg/apiclient"
	"github.com/unklstewy/sar-scope/pkg/config"
	"github.com/unklstewy/sar-scope/pkg/search"
	"github.com/unklstewy/sar-scope/pkg/weather"
)

// Aircraft source kinds.
const (
	SourceLive = "live"
	SourceDB   = "db"
)

// Estimator creates an estimator with the configured search parameters.
func Estimator(cfg *config.Config) (*search.Estimator, error) {
	return search.NewEstimator(search.Config{
		FuelConsumptionKgPerMin: cfg.Search.FuelConsumptionKgPerMin,
		FallbackRangeKm:         cfg.Search.FallbackRangeKm,
	})
}

// Aircraft opens the last known state source of the given kind: the live
// airplanes.live API or the collector database.
func Aircraft(ctx context.Context, cfg *config.Config, kind string) (adsb.DataSource, error) {
	switch strings.ToLower(kind) {
	case SourceLive, "":
		return adsb.NewAirplanesLiveClient(adsb.AirplanesLiveConfig{
			BaseURL:          cfg.ADSB.BaseURL,
			RateLimitSeconds: cfg.ADSB.RateLimitSeconds,
			Timeout:          time.Duration(cfg.ADSB.TimeoutSeconds) * time.Second,
		}), nil

	case SourceDB:
		if !cfg.Database.Enabled {
			return nil, fmt.Errorf("database source requested but database.enabled is false")
		}
		database, err := db.ReconnectWithRetry(ctx, cfg.Database, cfg.Database.ConnectAttempts, time.Second)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Printf("✅ Connected to database %s@%s:%d", cfg.Database.Database, cfg.Database.Host, cfg.Database.Port)
		return db.NewAircraftRepository(database), nil

	default:
		return nil, fmt.Errorf("unknown aircraft source %q (want %s or %s)", kind, SourceLive, SourceDB)
	}
}

// Weather creates the METAR client.
func Weather(cfg *config.Config) *weather.Client {
	return weather.NewClient(weather.Config{
		BaseURL:           cfg.Weather.BaseURL,
		RequestsPerMinute: cfg.Weather.RequestsPerMinute,
		Timeout:           time.Duration(cfg.Weather.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.Weather.MaxRetries,
	})
}

// Publisher connects the plan publisher, retrying with backoff while the
// NATS server is unreachable. Returns nil, nil when publishing is disabled.
func Publisher(ctx context.Context, cfg *config.Config) (*publish.Publisher, error) {
	if !cfg.NATS.Enabled {
		return nil, nil
	}

	retry := apiclient.DefaultRetryConfig()
	retry.MaxRetries = cfg.NATS.ConnectRetries
	retry.MaxDelay = 10 * time.Second

	p := publish.NewPublisher(cfg.NATS.Subject)
	err := apiclient.RetryWithBackoff(ctx, retry, func() error {
		return p.Connect(cfg.NATS.URL)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
