// File: services/notification/service.go
package notification

import (
	"context"
	"fmt"
	"sync/atomic"

	donorRepo "bloodlink/database/repository/donor"
	notificationRepo "bloodlink/database/repository/notification"
	"bloodlink/models"
	"bloodlink/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService sends FCM pushes and persists in-app notifications.
type NotificationService interface {
	SendDonorPush(ctx context.Context, donorID, title, body string, data map[string]string) error

	// RecordForDonor writes the in-app notification row. Tolerates deployments
	// whose notifications collection rejects the recipientType field: on a
	// schema rejection it retries once without the field and remembers the
	// outcome for the rest of the process lifetime.
	RecordForDonor(ctx context.Context, donorID, notifType, title, message string, data map[string]any) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	repo      notificationRepo.NotificationRepository
	donorRepo donorRepo.DonorRepository

	// 1 while the collection is believed to accept recipientType.
	supportsRecipientType atomic.Int32
}

func NewDefaultNotificationService(repo notificationRepo.NotificationRepository, donors donorRepo.DonorRepository) (*DefaultNotificationService, error) {
	if repo == nil || donors == nil {
		return nil, fmt.Errorf("notification service initialization error: nil repository")
	}
	s := &DefaultNotificationService{repo: repo, donorRepo: donors}
	s.supportsRecipientType.Store(1)
	return s, nil
}

// SendDonorPush looks up the donor's FCM token and sends a push.
func (s *DefaultNotificationService) SendDonorPush(ctx context.Context, donorID, title, body string, data map[string]string) error {
	donor, err := s.donorRepo.GetByID(ctx, donorID)
	if err != nil {
		return fmt.Errorf("SendDonorPush: could not find donor %s: %w", donorID, err)
	}
	if donor.FCMToken == "" {
		return fmt.Errorf("SendDonorPush: donor %s has no FCM token", donorID)
	}
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = "donor"
	}

	msg := &messaging.Message{
		Token: donor.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendDonorPush: failed to send FCM message: %w", err)
	}
	return nil
}

func (s *DefaultNotificationService) RecordForDonor(ctx context.Context, donorID, notifType, title, message string, data map[string]any) error {
	logger := utils.GetLogger()

	n := &models.Notification{
		ID:            uuid.New().String(),
		UserID:        donorID,
		RecipientType: "donor",
		Type:          notifType,
		Title:         title,
		Message:       message,
		Data:          data,
	}

	include := s.supportsRecipientType.Load() == 1
	err := s.repo.Insert(ctx, n, include)
	if err == nil {
		return nil
	}
	if !include || !notificationRepo.IsSchemaRejection(err) {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	// The deployment's collection predates the recipientType field. Drop it
	// and retry once; later writes skip the probe.
	logger.Warn("Notification write rejected by collection schema; retrying without recipientType",
		zap.String("donorId", donorID), zap.Error(err))
	s.supportsRecipientType.Store(0)
	if err := s.repo.Insert(ctx, n, false); err != nil {
		return fmt.Errorf("failed to record notification after schema retry: %w", err)
	}
	return nil
}
