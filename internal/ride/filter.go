package ride

import "backend-ridetrack/internal/shared/geo"

// MaxAccuracyM is the largest accuracy radius, in metres, a fix may report
// and still be used.
const MaxAccuracyM = 20.0

// Accept reports whether a fix is precise enough to be recorded.
func Accept(fix Fix) bool {
	return fix.Accuracy <= MaxAccuracyM
}

// DistanceKm is the great-circle distance between two fixes.
func DistanceKm(a, b Fix) float64 {
	return geo.HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// InstantaneousSpeedKmh prefers the sensor-reported speed and falls back to
// distance over elapsed time against the previous accepted fix. The result
// is never negative.
func InstantaneousSpeedKmh(fix Fix, prev *Fix) float64 {
	var kmh float64
	switch {
	case fix.Speed != nil:
		kmh = *fix.Speed * 3.6
	case prev != nil:
		elapsedHours := float64(fix.Timestamp-prev.Timestamp) / 1000 / 3600
		if elapsedHours <= 0 {
			return 0
		}
		kmh = DistanceKm(*prev, fix) / elapsedHours
	}
	if kmh < 0 {
		return 0
	}
	return kmh
}
