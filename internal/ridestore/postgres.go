package ridestore

import (
	"context"

	"backend-ridetrack/internal/db"
	"backend-ridetrack/internal/ride"
)

type Postgres struct {
	db db.Querier
}

func NewPostgres(q db.Querier) *Postgres {
	return &Postgres{db: q}
}

func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS rides (
			seq               BIGSERIAL PRIMARY KEY,
			id                UUID NOT NULL UNIQUE,
			rider_id          TEXT NOT NULL,
			started_at        TIMESTAMPTZ NOT NULL,
			distance_km       DOUBLE PRECISION NOT NULL,
			average_speed_kmh DOUBLE PRECISION NOT NULL,
			duration_seconds  DOUBLE PRECISION NOT NULL,
			positions         JSONB NOT NULL
		)
	`)
	return err
}

func (p *Postgres) Append(ctx context.Context, riderID string, rec ride.Record) error {
	positions, err := encodePositions(rec.Positions)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(ctx, `
		INSERT INTO rides (id, rider_id, started_at, distance_km, average_speed_kmh, duration_seconds, positions)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, rec.ID, riderID, rec.StartedAt.UTC(), rec.DistanceKm, rec.AverageSpeedKmh, rec.DurationSeconds, positions)
	return err
}

func (p *Postgres) List(ctx context.Context, riderID string) ([]ride.Record, error) {
	rows, err := p.db.Query(ctx, `
		SELECT id, started_at, distance_km, average_speed_kmh, duration_seconds, positions
		FROM rides WHERE rider_id=$1
		ORDER BY seq
	`, riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rides := []ride.Record{}
	for rows.Next() {
		var rec ride.Record
		var positions []byte
		if err := rows.Scan(&rec.ID, &rec.StartedAt, &rec.DistanceKm, &rec.AverageSpeedKmh, &rec.DurationSeconds, &positions); err != nil {
			return nil, err
		}
		rec.StartedAt = rec.StartedAt.UTC()
		if rec.Positions, err = decodePositions(positions); err != nil {
			return nil, err
		}
		rides = append(rides, rec)
	}
	return rides, rows.Err()
}
