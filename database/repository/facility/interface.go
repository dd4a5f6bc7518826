// File: database/repository/facility/interface.go
package facilityRepo

import (
	"context"
	"time"

	"bloodlink/database"
	"bloodlink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// FacilityRepository gives access to the two facility collections. The kind
// argument selects the collection; blood banks and hospitals are structurally
// identical but stored apart.
type FacilityRepository interface {
	Create(ctx context.Context, f *models.Facility) error
	GetByID(ctx context.Context, kind, id string) (*models.Facility, error)
	GetByEmail(ctx context.Context, kind, email string) (*models.Facility, error)
	GetManyByIDs(ctx context.Context, kind string, ids []string) ([]models.Facility, error)
	Update(ctx context.Context, f *models.Facility) error
	SetVerified(ctx context.Context, kind, id string, verified bool) error

	// FindWithSlots is the primary directory path: verified facilities within
	// radiusKm of origin, each annotated with distance and whether it has an
	// open slot on the given weekday. Results come back nearest first.
	FindWithSlots(ctx context.Context, kind string, weekday time.Weekday, origin models.GeoPoint, radiusKm float64) ([]models.FacilityMatch, error)
}

type mongoFacilityRepo struct {
	db *mongo.Database
}

// NewMongoFacilityRepo constructs a MongoDB-backed FacilityRepository.
func NewMongoFacilityRepo() FacilityRepository {
	return &mongoFacilityRepo{db: database.DB()}
}

func (r *mongoFacilityRepo) coll(kind string) *mongo.Collection {
	if kind == models.FacilityKindHospital {
		return r.db.Collection("hospitals")
	}
	return r.db.Collection("blood_banks")
}

func (r *mongoFacilityRepo) slotColl(kind string) string {
	if kind == models.FacilityKindHospital {
		return "hospital_slots"
	}
	return "blood_bank_slots"
}
