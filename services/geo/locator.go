// File: services/geo/locator.go
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"bloodlink/config"
	"bloodlink/models"
	"bloodlink/utils"

	"go.uber.org/zap"
)

// Locator resolves a client IP to approximate coordinates.
type Locator interface {
	// Resolve returns the client's coordinates and whether the fallback city
	// center was used. It never fails: an unresolvable IP degrades to the
	// fallback so the scheduling flow can continue.
	Resolve(ctx context.Context, ip string) (coords models.Coordinates, usedFallback bool)
}

// DefaultLocator queries ipapi.co and caches results per IP in memory.
type DefaultLocator struct {
	client *http.Client

	mu    sync.RWMutex
	cache map[string]models.Coordinates
}

// NewDefaultLocator constructs the production IP locator.
func NewDefaultLocator() *DefaultLocator {
	return &DefaultLocator{
		client: &http.Client{Timeout: 5 * time.Second},
		cache:  make(map[string]models.Coordinates),
	}
}

type ipAPIResponse struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Resolve looks up the IP's coordinates, falling back to the configured city
// center when the IP is private, the lookup fails, or the response is empty.
func (l *DefaultLocator) Resolve(ctx context.Context, ip string) (models.Coordinates, bool) {
	logger := utils.GetLogger()

	if ip == "" || isPrivateIP(ip) {
		return fallbackCoords(), true
	}

	l.mu.RLock()
	if coords, ok := l.cache[ip]; ok {
		l.mu.RUnlock()
		return coords, false
	}
	l.mu.RUnlock()

	url := fmt.Sprintf("https://ipapi.co/%s/json/", ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fallbackCoords(), true
	}
	resp, err := l.client.Do(req)
	if err != nil {
		logger.Warn("Geolocation lookup failed; using fallback city center",
			zap.String("ip", ip), zap.Error(err))
		return fallbackCoords(), true
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Geolocation API returned non-OK status; using fallback city center",
			zap.String("ip", ip), zap.Int("status", resp.StatusCode))
		return fallbackCoords(), true
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Warn("Failed to decode geolocation response; using fallback city center",
			zap.String("ip", ip), zap.Error(err))
		return fallbackCoords(), true
	}

	coords := models.Coordinates{Latitude: body.Latitude, Longitude: body.Longitude}
	if coords.IsZero() {
		return fallbackCoords(), true
	}

	l.mu.Lock()
	l.cache[ip] = coords
	l.mu.Unlock()
	return coords, false
}

// StaticLocator always reports the given coordinates. Used when the client
// supplies device coordinates directly, and in tests.
type StaticLocator struct {
	Coords models.Coordinates
}

func (s StaticLocator) Resolve(context.Context, string) (models.Coordinates, bool) {
	if s.Coords.IsZero() {
		return fallbackCoords(), true
	}
	return s.Coords, false
}

func fallbackCoords() models.Coordinates {
	lat, lng := config.FallbackCityCenter()
	return models.Coordinates{Latitude: lat, Longitude: lng}
}

func isPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsLoopback() || parsed.IsPrivate()
}
