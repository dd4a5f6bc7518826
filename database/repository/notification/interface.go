// File: database/repository/notification/interface.go
package notificationRepo

import (
	"context"
	"strings"

	"bloodlink/database"
	"bloodlink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationRepository persists in-app notifications.
//
// The notifications collection has drifted across deployments: older ones
// carry a JSON-schema validator that rejects documents with a recipientType
// field. Insert therefore takes an explicit includeRecipientType flag so the
// writer can probe once and drop the field for the rest of the session.
type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification, includeRecipientType bool) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkHandled(ctx context.Context, id string) error
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo constructs a MongoDB-backed NotificationRepository.
func NewMongoNotificationRepo() NotificationRepository {
	return &mongoNotificationRepo{coll: database.DB().Collection("notifications")}
}

// IsSchemaRejection reports whether an insert failed because the deployment's
// collection validator does not know the recipientType field.
func IsSchemaRejection(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Document failed validation") ||
		strings.Contains(msg, "recipientType")
}
