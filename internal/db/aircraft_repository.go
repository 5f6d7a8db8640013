package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/unklstewy/sar-scope/pkg/adsb"
)

// AircraftRepository reads the last known state of aircraft from the
// collector tables. It implements adsb.DataSource.
type AircraftRepository struct {
	db         *DB
	maxRetries int
}

// NewAircraftRepository creates a new aircraft repository.
func NewAircraftRepository(db *DB) *AircraftRepository {
	return &AircraftRepository{
		db:         db,
		maxRetries: 2,
	}
}

const lastKnownQuery = `SELECT icao, callsign, latitude, longitude, altitude_ft,
        ground_speed_kts, track_deg, vertical_rate_fpm, last_seen
 FROM aircraft
 WHERE icao = $1`

// Position history outlives the aircraft row, which the collector deletes
// once the aircraft has been invisible for an hour.
const lastPositionQuery = `SELECT icao, NULL::text, latitude, longitude, altitude_ft,
        ground_speed_kts, track_deg, vertical_rate_fpm, timestamp
 FROM aircraft_positions
 WHERE icao = $1
 ORDER BY timestamp DESC
 LIMIT 1`

// GetAircraftByICAO returns the most recent state recorded for an aircraft,
// visible or not. Returns nil if the collector never saw it.
func (r *AircraftRepository) GetAircraftByICAO(ctx context.Context, icao string) (*adsb.Aircraft, error) {
	icao = adsb.NormalizeICAO(icao)
	if icao == "" {
		return nil, fmt.Errorf("icao address is required")
	}

	for _, query := range []string{lastKnownQuery, lastPositionQuery} {
		var row lastKnownRow
		err := WithRetry(ctx, func() error {
			return r.db.QueryRowContext(ctx, query, icao).Scan(row.dest()...)
		}, r.maxRetries)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query aircraft %s: %w", icao, err)
		}

		ac := row.aircraft()
		return &ac, nil
	}

	return nil, nil
}

// Healthy reports whether the collector database still answers.
func (r *AircraftRepository) Healthy(ctx context.Context) bool {
	return HealthCheck(ctx, r.db)
}

// Close closes the underlying database connection.
func (r *AircraftRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// lastKnownRow holds one scanned state. Velocity columns may be NULL for
// aircraft that only ever sent position messages.
type lastKnownRow struct {
	ICAO         string
	Callsign     sql.NullString
	Latitude     sql.NullFloat64
	Longitude    sql.NullFloat64
	AltitudeFt   sql.NullFloat64
	GroundSpeed  sql.NullFloat64
	Track        sql.NullFloat64
	VerticalRate sql.NullFloat64
	LastSeen     time.Time
}

func (row *lastKnownRow) dest() []any {
	return []any{
		&row.ICAO, &row.Callsign,
		&row.Latitude, &row.Longitude, &row.AltitudeFt,
		&row.GroundSpeed, &row.Track, &row.VerticalRate,
		&row.LastSeen,
	}
}

func (row lastKnownRow) aircraft() adsb.Aircraft {
	ac := adsb.Aircraft{
		ICAO:     row.ICAO,
		Callsign: row.Callsign.String,
		LastSeen: row.LastSeen.UTC(),
	}

	if row.Latitude.Valid && row.Longitude.Valid {
		ac.Latitude = row.Latitude.Float64
		ac.Longitude = row.Longitude.Float64
		ac.HasPosition = true
	}
	if row.AltitudeFt.Valid {
		ac.Altitude = row.AltitudeFt.Float64
	}
	if row.GroundSpeed.Valid && row.Track.Valid {
		ac.GroundSpeed = row.GroundSpeed.Float64
		ac.Track = row.Track.Float64
		ac.HasVelocity = true
	}
	if row.VerticalRate.Valid {
		ac.VerticalRate = row.VerticalRate.Float64
	}

	return ac
}

var _ adsb.DataSource = (*AircraftRepository)(nil)
