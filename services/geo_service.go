package services

import (
	"math"

	"meetspot_server/models"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula
const earthRadiusKm = 6371.0

// Midpoint returns the arithmetic mean of two coordinates. This flat-plane
// approximation is cheap and adequate for intra-city distances; it is NOT
// geodesically correct near the poles or across the ±180° meridian.
func Midpoint(a, b models.Coordinates) models.Coordinates {
	return models.Coordinates{
		Latitude:  (a.Latitude + b.Latitude) / 2,
		Longitude: (a.Longitude + b.Longitude) / 2,
	}
}

// DistanceKm returns the great-circle distance between two points in
// kilometers, using the haversine formula.
func DistanceKm(a, b models.Coordinates) float64 {
	dLat := degToRad(b.Latitude - a.Latitude)
	dLng := degToRad(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Latitude))*math.Cos(degToRad(b.Latitude))*sinLng*sinLng

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// TravelTimeMinutes estimates travel time from distance: 3 km ≈ 10 minutes.
// A rough stand-in for a real routing estimate.
func TravelTimeMinutes(distanceKm float64) int {
	return int(math.Round(distanceKm / 3 * 10))
}

func degToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}
