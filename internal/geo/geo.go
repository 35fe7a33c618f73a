// Package geo provides coordinate distance and tolerance checks for geotag
// validation. Functions are pure; NaN coordinates propagate as NaN distances
// and it is the caller's job to validate upstream.
package geo

import "math"

// Coordinate is an immutable WGS84 position with the device-reported accuracy.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Accuracy is the device-reported error radius in meters, >= 0.
	Accuracy float64 `json:"accuracy"`
}

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle (haversine) distance between two
// coordinates. Symmetric, and exactly zero for float-equal coordinates.
func DistanceMeters(a, b Coordinate) float64 {
	if a.Latitude == b.Latitude && a.Longitude == b.Longitude {
		return 0
	}

	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// IsWithinTolerance reports whether current is at most toleranceMeters away
// from target. Tolerance is a call-site parameter: per-photo geotag checks use
// a tight radius, the "at business location" banner a wider one.
func IsWithinTolerance(current, target Coordinate, toleranceMeters float64) bool {
	return DistanceMeters(current, target) <= toleranceMeters
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
