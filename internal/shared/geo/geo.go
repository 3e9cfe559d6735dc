package geo

import "github.com/golang/geo/s2"

// EarthRadiusKm is the mean Earth radius used for all ride distances.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between two
// coordinates given in degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lng1)
	b := s2.LatLngFromDegrees(lat2, lng2)
	return a.Distance(b).Radians() * EarthRadiusKm
}
