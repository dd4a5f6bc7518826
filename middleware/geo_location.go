// File: middleware/geo_location.go
package middleware

import (
	"strconv"

	"bloodlink/models"
	"bloodlink/services/geo"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GeolocationMiddleware resolves the donor's position and sets it in the
// context. Device coordinates in query parameters win; otherwise the locator
// resolves the client IP, degrading to the fallback city center. The request
// never fails on location problems.
func GeolocationMiddleware(locator geo.Locator) gin.HandlerFunc {
	return func(c *gin.Context) {
		coords, usedFallback := clientCoordinates(c, locator)
		c.Set("origin", coords)
		c.Set("usedFallbackLocation", usedFallback)
		if usedFallback {
			zap.L().Info("Using fallback city center for client location",
				zap.String("ip", c.ClientIP()))
		}
		c.Next()
	}
}

func clientCoordinates(c *gin.Context, locator geo.Locator) (models.Coordinates, bool) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat == nil && errLng == nil {
			coords := models.Coordinates{Latitude: lat, Longitude: lng}
			if !coords.IsZero() {
				return coords, false
			}
		}
	}
	return locator.Resolve(c.Request.Context(), c.ClientIP())
}

// Origin pulls the resolved coordinates out of the context.
func Origin(c *gin.Context) (models.Coordinates, bool) {
	val, ok := c.Get("origin")
	if !ok {
		return models.Coordinates{}, true
	}
	coords, ok := val.(models.Coordinates)
	if !ok {
		return models.Coordinates{}, true
	}
	return coords, c.GetBool("usedFallbackLocation")
}
