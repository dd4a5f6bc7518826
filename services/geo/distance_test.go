// File: services/geo/distance_test.go
package geo

import (
	"testing"

	"bloodlink/models"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	delhi := models.Coordinates{Latitude: 28.6315, Longitude: 77.2167}
	mumbai := models.Coordinates{Latitude: 19.0760, Longitude: 72.8777}

	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceKm(delhi, delhi))
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.InDelta(t, DistanceKm(delhi, mumbai), DistanceKm(mumbai, delhi), 1e-9)
	})

	t.Run("known city pair", func(t *testing.T) {
		// Delhi to Mumbai is roughly 1150 km great-circle.
		d := DistanceKm(delhi, mumbai)
		assert.InDelta(t, 1150, d, 30)
	})

	t.Run("short hop", func(t *testing.T) {
		nearby := models.Coordinates{Latitude: 28.6415, Longitude: 77.2167}
		d := DistanceKm(delhi, nearby)
		assert.InDelta(t, 1.11, d, 0.05)
	})
}

func TestTravelMinutes(t *testing.T) {
	t.Run("zero distance means zero minutes", func(t *testing.T) {
		assert.Equal(t, 0, TravelMinutes(0))
	})

	t.Run("30 km takes an hour at city speed", func(t *testing.T) {
		assert.Equal(t, 60, TravelMinutes(30))
	})

	t.Run("15 km takes half an hour", func(t *testing.T) {
		assert.Equal(t, 30, TravelMinutes(15))
	})

	t.Run("tiny distances round up to a minute", func(t *testing.T) {
		assert.Equal(t, 1, TravelMinutes(0.1))
	})

	t.Run("monotonic in distance", func(t *testing.T) {
		prev := 0
		for _, km := range []float64{1, 5, 10, 25, 50, 100} {
			m := TravelMinutes(km)
			assert.GreaterOrEqual(t, m, prev)
			prev = m
		}
	})
}
