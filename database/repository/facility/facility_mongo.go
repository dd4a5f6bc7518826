// File: database/repository/facility/facility_mongo.go
package facilityRepo

import (
	"context"
	"fmt"
	"time"

	"bloodlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoFacilityRepo) Create(ctx context.Context, f *models.Facility) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	if _, err := r.coll(f.Kind).InsertOne(ctx, f); err != nil {
		return fmt.Errorf("failed to insert facility: %w", err)
	}
	return nil
}

func (r *mongoFacilityRepo) GetByID(ctx context.Context, kind, id string) (*models.Facility, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var f models.Facility
	err := r.coll(kind).FindOne(ctx, bson.M{"id": id}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("facility %s not found", id)
		}
		return nil, fmt.Errorf("find facility error: %w", err)
	}
	return &f, nil
}

func (r *mongoFacilityRepo) GetByEmail(ctx context.Context, kind, email string) (*models.Facility, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var f models.Facility
	err := r.coll(kind).FindOne(ctx, bson.M{"email": email}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("facility with email %s not found", email)
		}
		return nil, fmt.Errorf("find facility error: %w", err)
	}
	return &f, nil
}

func (r *mongoFacilityRepo) GetManyByIDs(ctx context.Context, kind string, ids []string) ([]models.Facility, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll(kind).Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch facilities: %w", err)
	}
	defer cursor.Close(ctx)

	var facilities []models.Facility
	if err := cursor.All(ctx, &facilities); err != nil {
		return nil, fmt.Errorf("error decoding facilities: %w", err)
	}
	return facilities, nil
}

func (r *mongoFacilityRepo) Update(ctx context.Context, f *models.Facility) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	f.UpdatedAt = time.Now()
	res, err := r.coll(f.Kind).ReplaceOne(ctx, bson.M{"id": f.ID}, f)
	if err != nil {
		return fmt.Errorf("failed to update facility: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("facility %s not found", f.ID)
	}
	return nil
}

func (r *mongoFacilityRepo) SetVerified(ctx context.Context, kind, id string, verified bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"verified": verified, "updatedAt": time.Now()}}
	res, err := r.coll(kind).UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set verified flag: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("facility %s not found", id)
	}
	return nil
}
