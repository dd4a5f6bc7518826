// File: database/repository/request/request_mongo.go
package requestRepo

import (
	"context"
	"fmt"
	"time"

	"bloodlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoRequestRepo) Create(ctx context.Context, req *models.BloodRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req.CreatedAt = time.Now()
	if req.Status == "" {
		req.Status = models.RequestStatusOpen
	}
	if _, err := r.coll().InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert blood request: %w", err)
	}
	return nil
}

func (r *mongoRequestRepo) GetByID(ctx context.Context, id string) (*models.BloodRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var req models.BloodRequest
	err := r.coll().FindOne(ctx, bson.M{"id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("blood request %s not found", id)
		}
		return nil, fmt.Errorf("find blood request error: %w", err)
	}
	return &req, nil
}

func (r *mongoRequestRepo) ListOpen(ctx context.Context, bloodGroup string) ([]models.BloodRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"status": models.RequestStatusOpen}
	if bloodGroup != "" {
		filter["bloodGroup"] = bloodGroup
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blood requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.BloodRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("error decoding blood requests: %w", err)
	}
	return requests, nil
}

func (r *mongoRequestRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": status}
	if status == models.RequestStatusFulfilled {
		set["fulfilledAt"] = time.Now()
	}
	res, err := r.coll().UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("blood request %s not found", id)
	}
	return nil
}
