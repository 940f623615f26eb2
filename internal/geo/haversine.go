// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package geo

import (
	"math"

	"github.com/tomtom215/cityfeed/internal/models"
)

// EarthRadiusKm is the mean Earth radius used for distance calculations.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b models.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h just past 1 for near-antipodal points.
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// NearestCity returns the city closest to point and its distance in kilometers.
// The first city wins on equal distance. ok is false when cities is empty.
func NearestCity(cities []models.City, point models.Coordinates) (city models.City, distanceKm float64, ok bool) {
	best := -1
	bestDist := math.Inf(1)
	for i := range cities {
		d := Haversine(point, cities[i].Coordinates)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return models.City{}, 0, false
	}
	return cities[best], bestDist, true
}
