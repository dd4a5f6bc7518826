// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"time"

	"bloodlink/database"
	"bloodlink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SlotRepository gives access to the two donation-slot collections.
type SlotRepository interface {
	CreateMany(ctx context.Context, slots []models.DonationSlot) ([]string, error)
	DeleteByID(ctx context.Context, kind, facilityID, slotID string) error
	GetByID(ctx context.Context, kind, slotID string) (*models.DonationSlot, error)

	// GetAvailable is the unified available-slots operation: the facility's
	// slots for the weekday that still have spare capacity, plus full ones so
	// the caller can mark them unavailable.
	GetAvailable(ctx context.Context, kind, facilityID string, weekday time.Weekday) ([]models.DonationSlot, error)

	// GetByFacilityAndWeekday is the direct table scan used as the selector's
	// fallback; it does not recompute occupancy.
	GetByFacilityAndWeekday(ctx context.Context, kind, facilityID string, weekday time.Weekday) ([]models.DonationSlot, error)

	// GetOpenByWeekday returns every slot row for the weekday with capacity > 0
	// across all facilities of the kind. Feeds the directory fallback.
	GetOpenByWeekday(ctx context.Context, kind string, weekday time.Weekday) ([]models.DonationSlot, error)

	// ReleaseBooking decrements a slot's booked count (cancel/reschedule),
	// never below zero.
	ReleaseBooking(ctx context.Context, kind, slotID string) error
}

type mongoSlotRepo struct {
	db *mongo.Database
}

// NewMongoSlotRepo constructs a MongoDB-backed SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	return &mongoSlotRepo{db: database.DB()}
}

func (r *mongoSlotRepo) coll(kind string) *mongo.Collection {
	if kind == models.FacilityKindHospital {
		return r.db.Collection("hospital_slots")
	}
	return r.db.Collection("blood_bank_slots")
}
