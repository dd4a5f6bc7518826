// File: services/geo/distance.go
package geo

import (
	"math"

	"bloodlink/models"
)

// Average door-to-door speed assumed when no routing data is available.
const averageSpeedKmh = 30.0

// DistanceKm calculates the great-circle distance (in km) between two
// coordinate pairs using the Haversine formula.
func DistanceKm(from, to models.Coordinates) float64 {
	const R = 6371
	dLat := (to.Latitude - from.Latitude) * math.Pi / 180
	dLon := (to.Longitude - from.Longitude) * math.Pi / 180
	lat1Rad := from.Latitude * math.Pi / 180
	lat2Rad := to.Latitude * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

// TravelMinutes estimates door-to-door travel time for a distance, assuming
// city traffic at 30 km/h. Always at least one minute for a non-zero distance.
func TravelMinutes(distanceKm float64) int {
	if distanceKm <= 0 {
		return 0
	}
	minutes := int(math.Round(distanceKm / averageSpeedKmh * 60))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
