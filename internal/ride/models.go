package ride

import "time"

// Fix is a single position sample reported by the sensor.
type Fix struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Timestamp int64    `json:"timestamp"`
	Accuracy  float64  `json:"accuracy"`
	Speed     *float64 `json:"speed,omitempty"`
}

// Time returns the fix timestamp as a UTC time.
func (f Fix) Time() time.Time {
	return time.UnixMilli(f.Timestamp).UTC()
}

// Record is a finalized ride. It is built once when a session stops and
// never changed afterwards.
type Record struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"started_at"`
	DistanceKm      float64   `json:"distance_km"`
	AverageSpeedKmh float64   `json:"average_speed_kmh"`
	DurationSeconds float64   `json:"duration_seconds"`
	Positions       []Fix     `json:"positions"`
}

// DurationMinutes is the ride duration truncated to whole minutes.
func (r Record) DurationMinutes() int {
	return int(r.DurationSeconds / 60)
}

// Snapshot is a copy of the session state, safe to hand to readers.
type Snapshot struct {
	State      State     `json:"state"`
	DistanceKm float64   `json:"distance_km"`
	SpeedKmh   float64   `json:"speed_kmh"`
	Positions  []Fix     `json:"positions"`
	Window     []float64 `json:"speed_window"`
}
