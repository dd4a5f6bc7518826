// File: database/repository/slot/queries.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"bloodlink/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoSlotRepo) CreateMany(ctx context.Context, slots []models.DonationSlot) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if len(slots) == 0 {
		return nil, nil
	}

	kind := slots[0].FacilityKind
	docs := make([]interface{}, 0, len(slots))
	ids := make([]string, 0, len(slots))
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.New().String()
		}
		if slots[i].FacilityKind != kind {
			return nil, fmt.Errorf("mixed facility kinds in one batch")
		}
		docs = append(docs, slots[i])
		ids = append(ids, slots[i].ID)
	}

	if _, err := r.coll(kind).InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to insert slots: %w", err)
	}
	return ids, nil
}

func (r *mongoSlotRepo) DeleteByID(ctx context.Context, kind, facilityID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll(kind).DeleteOne(ctx, bson.M{"id": slotID, "facilityId": facilityID})
	if err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("slot %s not found", slotID)
	}
	return nil
}

func (r *mongoSlotRepo) GetByID(ctx context.Context, kind, slotID string) (*models.DonationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.DonationSlot
	err := r.coll(kind).FindOne(ctx, bson.M{"id": slotID}).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("slot not found")
		}
		return nil, fmt.Errorf("find slot error: %w", err)
	}
	return &slot, nil
}

func (r *mongoSlotRepo) GetAvailable(ctx context.Context, kind, facilityID string, weekday time.Weekday) ([]models.DonationSlot, error) {
	return r.findByWeekday(ctx, kind, bson.M{
		"facilityId": facilityID,
		"weekday":    int(weekday),
		"capacity":   bson.M{"$gt": 0},
	})
}

func (r *mongoSlotRepo) GetByFacilityAndWeekday(ctx context.Context, kind, facilityID string, weekday time.Weekday) ([]models.DonationSlot, error) {
	return r.findByWeekday(ctx, kind, bson.M{
		"facilityId": facilityID,
		"weekday":    int(weekday),
	})
}

func (r *mongoSlotRepo) GetOpenByWeekday(ctx context.Context, kind string, weekday time.Weekday) ([]models.DonationSlot, error) {
	return r.findByWeekday(ctx, kind, bson.M{
		"weekday":  int(weekday),
		"capacity": bson.M{"$gt": 0},
	})
}

func (r *mongoSlotRepo) findByWeekday(ctx context.Context, kind string, filter bson.M) ([]models.DonationSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll(kind).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.DonationSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepo) ReleaseBooking(ctx context.Context, kind, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "bookedCount": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"bookedCount": -1, "version": 1}}
	if _, err := r.coll(kind).UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to release slot booking: %w", err)
	}
	return nil
}
