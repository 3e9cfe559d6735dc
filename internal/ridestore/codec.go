package ridestore

import (
	"encoding/json"
	"time"

	"backend-ridetrack/internal/ride"
)

func encodeRecord(rec ride.Record) ([]byte, error) {
	rec.StartedAt = rec.StartedAt.UTC()
	return json.Marshal(rec)
}

func decodeRecord(data []byte) (ride.Record, error) {
	var rec ride.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return ride.Record{}, err
	}
	return rec, nil
}

func encodePositions(positions []ride.Fix) (string, error) {
	if positions == nil {
		positions = []ride.Fix{}
	}
	data, err := json.Marshal(positions)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodePositions(data []byte) ([]ride.Fix, error) {
	var positions []ride.Fix
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
