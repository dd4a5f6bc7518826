// File: services/scheduling/selector.go
package scheduling

import (
	"context"
	"strings"
	"time"

	slotRepo "bloodlink/database/repository/slot"
	"bloodlink/models"
	"bloodlink/utils"

	"go.uber.org/zap"
)

// SyntheticSlotPrefix marks slot IDs the selector fabricated because the
// facility published no slot rows. Synthetic slots are placeholders, not real
// availability; a booking that somehow carries one claims no capacity.
const SyntheticSlotPrefix = "open-"

// SlotSelector lists the bookable time windows at a facility for a weekday.
type SlotSelector interface {
	ListSlots(ctx context.Context, kind, facilityID string, weekday time.Weekday) ([]models.SlotView, error)
}

// DefaultSlotSelector is the production implementation. Three tiers: the
// unified availability query, then a direct table scan, then a synthesized
// hourly grid so the caller always has rows to render.
type DefaultSlotSelector struct {
	SlotRepo slotRepo.SlotRepository
}

func (s *DefaultSlotSelector) ListSlots(ctx context.Context, kind, facilityID string, weekday time.Weekday) ([]models.SlotView, error) {
	logger := utils.GetLogger()

	slots, err := s.SlotRepo.GetAvailable(ctx, kind, facilityID, weekday)
	if err != nil {
		logger.Warn("Unified slot query failed; falling back to direct scan",
			zap.String("facilityId", facilityID), zap.Error(err))
	}
	if err == nil && len(slots) > 0 {
		return viewsOf(slots), nil
	}

	slots, err = s.SlotRepo.GetByFacilityAndWeekday(ctx, kind, facilityID, weekday)
	if err != nil {
		logger.Warn("Direct slot scan failed; synthesizing default hours",
			zap.String("facilityId", facilityID), zap.Error(err))
	}
	if err == nil && len(slots) > 0 {
		return viewsOf(slots), nil
	}

	return synthesizeDefaultHours(), nil
}

func viewsOf(slots []models.DonationSlot) []models.SlotView {
	views := make([]models.SlotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, models.ViewOf(slot, !slot.Full()))
	}
	return views
}

// synthesizeDefaultHours builds an hourly 09:00-17:00 grid with zero capacity.
// A nothing-bookable placeholder, not real availability.
func synthesizeDefaultHours() []models.SlotView {
	var views []models.SlotView
	for hour := 9; hour < 17; hour++ {
		start := hour * 60
		views = append(views, models.SlotView{
			ID:        SyntheticSlotPrefix + models.FormatClock(start),
			StartTime: models.FormatClock(start),
			EndTime:   models.FormatClock(start + 60),
			Capacity:  0,
			Available: false,
		})
	}
	return views
}

// IsSyntheticSlot reports whether a slot ID was fabricated by the selector.
func IsSyntheticSlot(slotID string) bool {
	return strings.HasPrefix(slotID, SyntheticSlotPrefix)
}
