// File: services/routing/matrix.go
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"bloodlink/config"
	"bloodlink/models"
	"bloodlink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatrixService refines straight-line travel estimates with real routing
// durations. Strictly best-effort: every failure path returns an error the
// caller is expected to swallow, leaving the Haversine estimate in place.
type MatrixService interface {
	// Durations returns road-travel minutes from origin to each destination,
	// in destination order. A zero entry means no route was found.
	Durations(ctx context.Context, origin models.Coordinates, destinations []models.Coordinates) ([]int, error)
}

// GoogleMatrixService calls the Google Distance Matrix API.
type GoogleMatrixService struct {
	client  *http.Client
	baseURL string
}

// NewGoogleMatrixService constructs the production routing client.
func NewGoogleMatrixService() *GoogleMatrixService {
	return &GoogleMatrixService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://maps.googleapis.com/maps/api/distancematrix/json",
	}
}

// Retry tuning for rate-limited responses.
const (
	maxAttempts  = 3
	retryBase    = 1 * time.Second
	retryCeiling = 15 * time.Second
)

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

func (s *GoogleMatrixService) Durations(ctx context.Context, origin models.Coordinates, destinations []models.Coordinates) ([]int, error) {
	logger := utils.GetLogger()

	apiKey := config.AppConfig.GoogleAPIKey
	if apiKey == "" {
		return nil, fmt.Errorf("routing disabled: no API key configured")
	}
	if len(destinations) == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("origins", fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude))
	dest := ""
	for i, d := range destinations {
		if i > 0 {
			dest += "|"
		}
		dest += fmt.Sprintf("%f,%f", d.Latitude, d.Longitude)
	}
	params.Set("destinations", dest)
	params.Set("mode", "driving")
	params.Set("key", apiKey)
	reqURL := s.baseURL + "?" + params.Encode()

	requestID := uuid.New().String()

	var resp *http.Response
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if reqErr != nil {
			return nil, reqErr
		}
		req.Header.Set("X-Request-ID", requestID)

		resp, err = s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("distance matrix request failed: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()
		if attempt == maxAttempts {
			return nil, fmt.Errorf("distance matrix rate limited after %d attempts", maxAttempts)
		}

		// Exponential backoff with jitter, capped.
		backoff := retryBase << (attempt - 1)
		if backoff > retryCeiling {
			backoff = retryCeiling
		}
		backoff += time.Duration(rand.Int63n(int64(backoff) / 2))
		logger.Warn("Distance matrix rate limited; retrying",
			zap.String("requestId", requestID),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("distance matrix returned status %d", resp.StatusCode)
	}

	var body matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode distance matrix response: %w", err)
	}
	if body.Status != "OK" || len(body.Rows) == 0 {
		return nil, fmt.Errorf("distance matrix status %q", body.Status)
	}

	durations := make([]int, len(destinations))
	for i, el := range body.Rows[0].Elements {
		if i >= len(durations) {
			break
		}
		if el.Status == "OK" {
			durations[i] = el.Duration.Value / 60
		}
	}
	return durations, nil
}
