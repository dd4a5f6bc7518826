package models

import "time"

// Notification types used by the scheduling flow.
const (
	NotificationTypeDonationScheduled = "donation_scheduled"
	NotificationTypeAppointment       = "appointment"
	NotificationTypeRequestFulfilled  = "request_fulfilled"
)

// Notification is a persisted in-app notification. RecipientType is optional:
// older deployments lack the field and reject writes that carry it, so the
// writer must be able to omit it (see services/notification).
type Notification struct {
	ID            string         `bson:"id" json:"id"`
	UserID        string         `bson:"userId" json:"userId"`
	RecipientType string         `bson:"recipientType,omitempty" json:"recipientType,omitempty"`
	Type          string         `bson:"type" json:"type"`
	Title         string         `bson:"title" json:"title"`
	Message       string         `bson:"message" json:"message"`
	Data          map[string]any `bson:"data,omitempty" json:"data,omitempty"`
	Read          bool           `bson:"read" json:"read"`
	Handled       bool           `bson:"handled" json:"handled"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
}
