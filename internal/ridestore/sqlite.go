package ridestore

import (
	"context"
	"database/sql"

	"backend-ridetrack/internal/ride"
)

// SQLite stores rides in a local database file opened with the modernc
// driver (see db.ConnectSQLite).
type SQLite struct {
	db *sql.DB
}

func NewSQLite(conn *sql.DB) *SQLite {
	return &SQLite{db: conn}
}

func (s *SQLite) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS rides (
			seq               INTEGER PRIMARY KEY AUTOINCREMENT,
			id                TEXT NOT NULL UNIQUE,
			rider_id          TEXT NOT NULL,
			started_at        TEXT NOT NULL,
			distance_km       REAL NOT NULL,
			average_speed_kmh REAL NOT NULL,
			duration_seconds  REAL NOT NULL,
			positions         TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_rides_rider ON rides(rider_id, seq);
	`)
	return err
}

func (s *SQLite) Append(ctx context.Context, riderID string, rec ride.Record) error {
	positions, err := encodePositions(rec.Positions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rides (id, rider_id, started_at, distance_km, average_speed_kmh, duration_seconds, positions)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, riderID, formatTime(rec.StartedAt), rec.DistanceKm, rec.AverageSpeedKmh, rec.DurationSeconds, positions)
	return err
}

func (s *SQLite) List(ctx context.Context, riderID string) ([]ride.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, distance_km, average_speed_kmh, duration_seconds, positions
		FROM rides WHERE rider_id = ?
		ORDER BY seq
	`, riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rides := []ride.Record{}
	for rows.Next() {
		var rec ride.Record
		var startedAt, positions string
		if err := rows.Scan(&rec.ID, &startedAt, &rec.DistanceKm, &rec.AverageSpeedKmh, &rec.DurationSeconds, &positions); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, err
		}
		if rec.Positions, err = decodePositions([]byte(positions)); err != nil {
			return nil, err
		}
		rides = append(rides, rec)
	}
	return rides, rows.Err()
}
