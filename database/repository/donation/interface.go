// File: database/repository/donation/interface.go
package donationRepo

import (
	"context"
	"errors"

	"bloodlink/database"
	"bloodlink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Known booking failures. Their messages are part of the scheduling contract;
// callers match on them to pick user-facing remediation text.
var (
	ErrActiveDonationExists = errors.New("donor already has an active donation scheduled")
	ErrNoAvailableSlots     = errors.New("No available slots")
)

// DonationRepository gives access to the two scheduled-donation collections.
type DonationRepository interface {
	GetByID(ctx context.Context, kind, id string) (*models.ScheduledDonation, error)
	ListByDonor(ctx context.Context, donorID string) ([]models.ScheduledDonation, error)
	UpdateStatus(ctx context.Context, kind, id, status, reason string) error
	HasActive(ctx context.Context, donorID string) (bool, error)

	// Schedule atomically claims a slot unit and inserts the donation record.
	// Fails with ErrActiveDonationExists if the donor already holds an active
	// booking, or ErrNoAvailableSlots if the slot has no spare capacity by the
	// time the claim lands.
	Schedule(ctx context.Context, donation *models.ScheduledDonation) error
}

type mongoDonationRepo struct {
	db *mongo.Database
}

// NewMongoDonationRepo constructs a MongoDB-backed DonationRepository.
func NewMongoDonationRepo() DonationRepository {
	return &mongoDonationRepo{db: database.DB()}
}

func (r *mongoDonationRepo) coll(kind string) *mongo.Collection {
	if kind == models.FacilityKindHospital {
		return r.db.Collection("hospital_donations")
	}
	return r.db.Collection("blood_bank_donations")
}

func (r *mongoDonationRepo) slotColl(kind string) *mongo.Collection {
	if kind == models.FacilityKindHospital {
		return r.db.Collection("hospital_slots")
	}
	return r.db.Collection("blood_bank_slots")
}

func donationKinds() []string {
	return []string{models.FacilityKindBloodBank, models.FacilityKindHospital}
}
