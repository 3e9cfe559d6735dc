package ridestore

import (
	"testing"
	"time"

	"backend-ridetrack/internal/ride"
)

func sampleRecord(id string) ride.Record {
	speed := 4.25
	return ride.Record{
		ID:              id,
		StartedAt:       time.UnixMilli(1700000000123).UTC(),
		DistanceKm:      1.1119492664455873,
		AverageSpeedKmh: 400.30173592041143,
		DurationSeconds: 10,
		Positions: []ride.Fix{
			{Latitude: 0, Longitude: 0, Timestamp: 1700000000123, Accuracy: 5},
			{Latitude: 0, Longitude: 0.01, Timestamp: 1700000010123, Accuracy: 4.5, Speed: &speed},
		},
	}
}

func assertSameRecord(t *testing.T, want, got ride.Record) {
	t.Helper()
	if got.ID != want.ID {
		t.Fatalf("id: want %s got %s", want.ID, got.ID)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Fatalf("started_at: want %v got %v", want.StartedAt, got.StartedAt)
	}
	if got.DistanceKm != want.DistanceKm || got.AverageSpeedKmh != want.AverageSpeedKmh || got.DurationSeconds != want.DurationSeconds {
		t.Fatalf("totals differ: want %+v got %+v", want, got)
	}
	if len(got.Positions) != len(want.Positions) {
		t.Fatalf("positions: want %d got %d", len(want.Positions), len(got.Positions))
	}
	for i := range want.Positions {
		w, g := want.Positions[i], got.Positions[i]
		if w.Latitude != g.Latitude || w.Longitude != g.Longitude || w.Timestamp != g.Timestamp || w.Accuracy != g.Accuracy {
			t.Fatalf("position %d differs: want %+v got %+v", i, w, g)
		}
		if (w.Speed == nil) != (g.Speed == nil) || (w.Speed != nil && *w.Speed != *g.Speed) {
			t.Fatalf("position %d speed differs", i)
		}
	}
}
