// File: services/request/service.go
package request

import (
	"context"
	"fmt"

	requestRepo "bloodlink/database/repository/request"
	"bloodlink/models"
	"bloodlink/services/notification"
	"bloodlink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService handles emergency blood requests and their confirmation.
type RequestService interface {
	Create(ctx context.Context, hospitalID string, req *models.BloodRequest) (*models.BloodRequest, error)
	ListOpen(ctx context.Context, bloodGroup string) ([]models.BloodRequest, error)
	Confirm(ctx context.Context, conf models.DonationConfirmation) error
}

// DefaultRequestService is the production implementation.
type DefaultRequestService struct {
	Repo      requestRepo.RequestRepository
	NotifySvc notification.NotificationService
}

func (s *DefaultRequestService) Create(ctx context.Context, hospitalID string, req *models.BloodRequest) (*models.BloodRequest, error) {
	req.ID = uuid.New().String()
	req.HospitalID = hospitalID
	req.Status = models.RequestStatusOpen
	if err := s.Repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *DefaultRequestService) ListOpen(ctx context.Context, bloodGroup string) ([]models.BloodRequest, error) {
	return s.Repo.ListOpen(ctx, bloodGroup)
}

// Confirm runs the atomic confirmation and then pushes a thank-you to the
// donor. The push is best-effort; the transaction already wrote the in-app
// notification row.
func (s *DefaultRequestService) Confirm(ctx context.Context, conf models.DonationConfirmation) error {
	if err := s.Repo.ConfirmDonation(ctx, conf); err != nil {
		return err
	}
	if s.NotifySvc != nil {
		body := fmt.Sprintf("Thank you! Your donation of %d unit(s) at %s was confirmed.",
			conf.UnitsDonated, conf.HospitalName)
		if err := s.NotifySvc.SendDonorPush(ctx, conf.DonorID, "Donation confirmed", body, map[string]string{
			"type":      models.NotificationTypeRequestFulfilled,
			"requestId": conf.RequestID,
		}); err != nil {
			utils.GetLogger().Debug("Confirmation push not delivered", zap.Error(err))
		}
	}
	return nil
}
