// File: database/repository/request/interface.go
package requestRepo

import (
	"context"

	"bloodlink/database"
	"bloodlink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// RequestRepository gives access to emergency blood requests and the
// facility inventory they draw on.
type RequestRepository interface {
	Create(ctx context.Context, req *models.BloodRequest) error
	GetByID(ctx context.Context, id string) (*models.BloodRequest, error)
	ListOpen(ctx context.Context, bloodGroup string) ([]models.BloodRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error

	// ConfirmDonation is the atomic confirmation handler: inventory credit,
	// request fulfilment, donation completion and the donor notification all
	// commit in a single transaction.
	ConfirmDonation(ctx context.Context, conf models.DonationConfirmation) error
}

type mongoRequestRepo struct {
	db *mongo.Database
}

// NewMongoRequestRepo constructs a MongoDB-backed RequestRepository.
func NewMongoRequestRepo() RequestRepository {
	return &mongoRequestRepo{db: database.DB()}
}

func (r *mongoRequestRepo) coll() *mongo.Collection {
	return r.db.Collection("blood_requests")
}
