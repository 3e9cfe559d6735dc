package tracking

import "backend-ridetrack/internal/ride"

// FixRequest is the device payload for one position sample.
type FixRequest struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Timestamp int64    `json:"timestamp"`
	Accuracy  float64  `json:"accuracy"`
	Speed     *float64 `json:"speed"`
}

func (r FixRequest) Fix() ride.Fix {
	return ride.Fix{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Timestamp: r.Timestamp,
		Accuracy:  r.Accuracy,
		Speed:     r.Speed,
	}
}

// HistoryEntry is a stored ride as shown in the rider's history.
type HistoryEntry struct {
	ride.Record
	DurationMinutes int `json:"duration_minutes"`
}
