// File: database/repository/donor/interface.go
package donorRepo

import (
	"context"

	"bloodlink/database"
	"bloodlink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// DonorRepository gives access to donor profiles.
type DonorRepository interface {
	Create(ctx context.Context, d *models.Donor) error
	GetByID(ctx context.Context, id string) (*models.Donor, error)
	GetByAuthID(ctx context.Context, authUserID string) (*models.Donor, error)
	GetByEmail(ctx context.Context, email string) (*models.Donor, error)
	Update(ctx context.Context, d *models.Donor) error
	UpdateFCMToken(ctx context.Context, id, token string) error
}

type mongoDonorRepo struct {
	coll *mongo.Collection
}

// NewMongoDonorRepo constructs a MongoDB-backed DonorRepository.
func NewMongoDonorRepo() DonorRepository {
	return &mongoDonorRepo{coll: database.DB().Collection("donors")}
}
