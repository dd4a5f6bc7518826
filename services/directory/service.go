// File: services/directory/service.go
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"bloodlink/config"
	facilityRepo "bloodlink/database/repository/facility"
	slotRepo "bloodlink/database/repository/slot"
	"bloodlink/models"
	"bloodlink/services/geo"
	"bloodlink/services/routing"
	"bloodlink/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DirectoryService finds facilities a donor can book on a given weekday.
type DirectoryService interface {
	FindFacilities(ctx context.Context, origin models.Coordinates, weekday time.Weekday) (*models.FacilityDirectory, error)
}

// DefaultDirectoryService is the production implementation. It tries the
// server-side geo search per facility kind first and only falls back to a
// direct slot scan when both kinds come back empty.
type DefaultDirectoryService struct {
	FacilityRepo facilityRepo.FacilityRepository
	SlotRepo     slotRepo.SlotRepository
	RoutingSvc   routing.MatrixService
	CacheClient  *redis.Client
}

const directoryCacheTTL = 5 * time.Minute

func (s *DefaultDirectoryService) FindFacilities(ctx context.Context, origin models.Coordinates, weekday time.Weekday) (*models.FacilityDirectory, error) {
	logger := utils.GetLogger()

	cacheKey := fmt.Sprintf("directory:%d:%.4f:%.4f", weekday, origin.Latitude, origin.Longitude)
	if s.CacheClient != nil {
		if cached, err := s.CacheClient.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var dir models.FacilityDirectory
			if err := json.Unmarshal([]byte(cached), &dir); err == nil {
				return &dir, nil
			}
		}
	}

	radius := config.AppConfig.SearchRadiusKm
	dir := &models.FacilityDirectory{
		BloodBanks: s.findKind(ctx, models.FacilityKindBloodBank, weekday, origin, radius),
		Hospitals:  s.findKind(ctx, models.FacilityKindHospital, weekday, origin, radius),
	}

	// Both kinds empty: the geo search can legitimately miss facilities whose
	// location data is unindexed, so re-derive candidates from the slot tables.
	// The travel-time refinement only applies to geo-search results.
	if dir.Empty() {
		logger.Info("Geo search returned no facilities; scanning slot tables directly",
			zap.Int("weekday", int(weekday)))
		var err error
		dir.BloodBanks, err = s.fallbackKind(ctx, models.FacilityKindBloodBank, weekday, origin)
		if err != nil {
			return nil, err
		}
		dir.Hospitals, err = s.fallbackKind(ctx, models.FacilityKindHospital, weekday, origin)
		if err != nil {
			return nil, err
		}
	} else {
		s.refineTravelTimes(ctx, origin, dir)
	}

	if s.CacheClient != nil && !dir.Empty() {
		if data, err := json.Marshal(dir); err == nil {
			s.CacheClient.Set(ctx, cacheKey, data, directoryCacheTTL)
		}
	}
	return dir, nil
}

// findKind runs the primary geo search for one facility kind, keeping only
// facilities that actually have an open slot on the weekday. A query error is
// logged and treated as zero results so the slot-scan fallback can still run.
func (s *DefaultDirectoryService) findKind(ctx context.Context, kind string, weekday time.Weekday, origin models.Coordinates, radiusKm float64) []models.FacilityMatch {
	matches, err := s.FacilityRepo.FindWithSlots(ctx, kind, weekday, origin.ToGeoPoint(), radiusKm)
	if err != nil {
		utils.GetLogger().Warn("Facility geo search failed",
			zap.String("kind", kind), zap.Error(err))
		return nil
	}
	var withSlots []models.FacilityMatch
	for _, m := range matches {
		if !m.HasSlots {
			continue
		}
		m.EstimatedTimeMinutes = geo.TravelMinutes(m.DistanceKm)
		withSlots = append(withSlots, m)
	}
	return withSlots
}

// fallbackKind derives candidate facilities from the open slots themselves:
// every slot row for the weekday, grouped by facility, then hydrated and
// distance-sorted client-side.
func (s *DefaultDirectoryService) fallbackKind(ctx context.Context, kind string, weekday time.Weekday, origin models.Coordinates) ([]models.FacilityMatch, error) {
	slots, err := s.SlotRepo.GetOpenByWeekday(ctx, kind, weekday)
	if err != nil {
		return nil, fmt.Errorf("slot scan failed for %s: %w", kind, err)
	}
	if len(slots) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var ids []string
	for _, slot := range slots {
		if slot.Full() || seen[slot.FacilityID] {
			continue
		}
		seen[slot.FacilityID] = true
		ids = append(ids, slot.FacilityID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	facilities, err := s.FacilityRepo.GetManyByIDs(ctx, kind, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate facilities for %s: %w", kind, err)
	}

	var matches []models.FacilityMatch
	for _, f := range facilities {
		if !f.Verified {
			continue
		}
		dest := models.Coordinates{Latitude: f.LocationGeo.Lat(), Longitude: f.LocationGeo.Lng()}
		d := geo.DistanceKm(origin, dest)
		matches = append(matches, models.FacilityMatch{
			Facility:             f,
			DistanceKm:           d,
			HasSlots:             true,
			EstimatedTimeMinutes: geo.TravelMinutes(d),
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})
	return matches, nil
}

// refineTravelTimes swaps straight-line estimates for road durations where the
// routing service answers. Failures leave the Haversine estimates in place.
func (s *DefaultDirectoryService) refineTravelTimes(ctx context.Context, origin models.Coordinates, dir *models.FacilityDirectory) {
	if s.RoutingSvc == nil {
		return
	}
	logger := utils.GetLogger()

	for _, group := range []*[]models.FacilityMatch{&dir.BloodBanks, &dir.Hospitals} {
		matches := *group
		if len(matches) == 0 {
			continue
		}
		dests := make([]models.Coordinates, len(matches))
		for i, m := range matches {
			dests[i] = models.Coordinates{Latitude: m.LocationGeo.Lat(), Longitude: m.LocationGeo.Lng()}
		}
		durations, err := s.RoutingSvc.Durations(ctx, origin, dests)
		if err != nil {
			logger.Debug("Travel time refinement skipped", zap.Error(err))
			continue
		}
		for i := range matches {
			if i < len(durations) && durations[i] > 0 {
				matches[i].ActualDurationMinutes = durations[i]
			}
		}
	}
}
