// File: database/repository/notification/notification_mongo.go
package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"bloodlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoNotificationRepo) Insert(ctx context.Context, n *models.Notification, includeRecipientType bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if includeRecipientType {
		_, err := r.coll.InsertOne(ctx, n)
		return err
	}

	// Build the document by hand to guarantee the drifted field is absent.
	doc := bson.M{
		"id":        n.ID,
		"userId":    n.UserID,
		"type":      n.Type,
		"title":     n.Title,
		"message":   n.Message,
		"read":      n.Read,
		"handled":   n.Handled,
		"createdAt": n.CreatedAt,
	}
	if len(n.Data) > 0 {
		doc["data"] = n.Data
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

func (r *mongoNotificationRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("error decoding notifications: %w", err)
	}
	return notifications, nil
}

func (r *mongoNotificationRepo) MarkRead(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "read")
}

func (r *mongoNotificationRepo) MarkHandled(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "handled")
}

func (r *mongoNotificationRepo) setFlag(ctx context.Context, id, field string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{field: true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("notification %s not found", id)
	}
	return nil
}
