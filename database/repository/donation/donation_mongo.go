// File: database/repository/donation/donation_mongo.go
package donationRepo

import (
	"context"
	"fmt"
	"time"

	"bloodlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoDonationRepo) GetByID(ctx context.Context, kind, id string) (*models.ScheduledDonation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var d models.ScheduledDonation
	err := r.coll(kind).FindOne(ctx, bson.M{"id": id}).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("donation %s not found", id)
		}
		return nil, fmt.Errorf("find donation error: %w", err)
	}
	return &d, nil
}

func (r *mongoDonationRepo) ListByDonor(ctx context.Context, donorID string) ([]models.ScheduledDonation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var all []models.ScheduledDonation
	opts := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: -1}})
	for _, kind := range donationKinds() {
		cursor, err := r.coll(kind).Find(ctx, bson.M{"donorId": donorID}, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch donations: %w", err)
		}
		var batch []models.ScheduledDonation
		if err := cursor.All(ctx, &batch); err != nil {
			return nil, fmt.Errorf("error decoding donations: %w", err)
		}
		all = append(all, batch...)
	}
	return all, nil
}

func (r *mongoDonationRepo) UpdateStatus(ctx context.Context, kind, id, status, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": status, "updatedAt": time.Now()}
	if reason != "" {
		set["cancelReason"] = reason
	}
	res, err := r.coll(kind).UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update donation status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("donation %s not found", id)
	}
	return nil
}

func (r *mongoDonationRepo) HasActive(ctx context.Context, donorID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"donorId": donorID,
		"status":  bson.M{"$in": []string{models.DonationStatusScheduled, models.DonationStatusConfirmed}},
	}
	for _, kind := range donationKinds() {
		n, err := r.coll(kind).CountDocuments(ctx, filter)
		if err != nil {
			return false, fmt.Errorf("failed to count active donations: %w", err)
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}
