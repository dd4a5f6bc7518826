// File: database/repository/donor/donor_mongo.go
package donorRepo

import (
	"context"
	"fmt"
	"time"

	"bloodlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoDonorRepo) Create(ctx context.Context, d *models.Donor) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to insert donor: %w", err)
	}
	return nil
}

func (r *mongoDonorRepo) GetByID(ctx context.Context, id string) (*models.Donor, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoDonorRepo) GetByAuthID(ctx context.Context, authUserID string) (*models.Donor, error) {
	return r.findOne(ctx, bson.M{"authUserId": authUserID})
}

func (r *mongoDonorRepo) GetByEmail(ctx context.Context, email string) (*models.Donor, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoDonorRepo) findOne(ctx context.Context, filter bson.M) (*models.Donor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var d models.Donor
	err := r.coll.FindOne(ctx, filter).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("donor not found")
		}
		return nil, fmt.Errorf("find donor error: %w", err)
	}
	return &d, nil
}

func (r *mongoDonorRepo) Update(ctx context.Context, d *models.Donor) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	d.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": d.ID}, d)
	if err != nil {
		return fmt.Errorf("failed to update donor: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("donor %s not found", d.ID)
	}
	return nil
}

func (r *mongoDonorRepo) UpdateFCMToken(ctx context.Context, id, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"fcmToken": token, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update fcm token: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("donor %s not found", id)
	}
	return nil
}
