// File: services/scheduling/submitter.go
package scheduling

import (
	"context"
	"fmt"
	"strings"

	donationRepo "bloodlink/database/repository/donation"
	donorRepo "bloodlink/database/repository/donor"
	slotRepo "bloodlink/database/repository/slot"
	"bloodlink/models"
	"bloodlink/services/notification"
	"bloodlink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitRequest carries everything needed to book a donation.
type SubmitRequest struct {
	AuthUserID    string
	FacilityID    string
	FacilityKind  string
	FacilityName  string
	SlotID        string
	ScheduledDate string // "2006-01-02"
	ScheduledTime string // "HH:MM"
	Notes         string

	// Set when this booking replaces an existing one.
	RescheduleID   string
	RescheduleKind string
}

// ReminderScheduler is the enqueue side of the reminder worker.
type ReminderScheduler interface {
	ScheduleDonationReminder(donation *models.ScheduledDonation, facilityName string) error
}

// Submitter books and cancels donations.
type Submitter interface {
	Submit(ctx context.Context, req SubmitRequest) (*models.ScheduledDonation, error)
	Cancel(ctx context.Context, authUserID, kind, donationID, reason string) error
}

// DefaultSubmitter is the production implementation.
type DefaultSubmitter struct {
	DonorRepo    donorRepo.DonorRepository
	DonationRepo donationRepo.DonationRepository
	SlotRepo     slotRepo.SlotRepository
	NotifySvc    notification.NotificationService
	Reminders    ReminderScheduler
}

// Submit books the donation. The slot claim and donation insert are atomic;
// everything after the booking (notification row, push, reminder) is
// best-effort and never fails the booking.
func (s *DefaultSubmitter) Submit(ctx context.Context, req SubmitRequest) (*models.ScheduledDonation, error) {
	donor, err := s.DonorRepo.GetByAuthID(ctx, req.AuthUserID)
	if err != nil {
		return nil, newSchedulingError("signInRequired",
			"Please sign in to schedule a donation.", err)
	}

	if req.RescheduleID != "" {
		if err := s.releasePrevious(ctx, donor.ID, req.RescheduleKind, req.RescheduleID); err != nil {
			return nil, err
		}
	}

	slotID := req.SlotID
	if IsSyntheticSlot(slotID) {
		// Fabricated window: nothing to claim, the facility confirms manually.
		slotID = ""
	}

	donation := &models.ScheduledDonation{
		ID:            uuid.New().String(),
		DonorID:       donor.ID,
		FacilityID:    req.FacilityID,
		FacilityKind:  req.FacilityKind,
		SlotID:        slotID,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Status:        models.DonationStatusScheduled,
		Notes:         req.Notes,
	}

	if err := s.DonationRepo.Schedule(ctx, donation); err != nil {
		return nil, mapBookingError(err)
	}

	s.notifyScheduled(ctx, donor.ID, req.FacilityName, donation)
	return donation, nil
}

// releasePrevious gates on mutability before touching anything, then marks the
// old booking rescheduled and frees its slot unit. The release itself is
// best-effort; a stuck release only costs a phantom unit of capacity.
func (s *DefaultSubmitter) releasePrevious(ctx context.Context, donorID, kind, donationID string) error {
	logger := utils.GetLogger()

	old, err := s.DonationRepo.GetByID(ctx, kind, donationID)
	if err != nil {
		return newSchedulingError("rescheduleTargetMissing",
			"The donation you are rescheduling could not be found.", err)
	}
	if old.DonorID != donorID {
		return newSchedulingError("rescheduleForbidden",
			"You can only reschedule your own donations.", nil)
	}
	if !models.Mutable(old.Status) {
		return newSchedulingError("rescheduleFinal",
			"That donation can no longer be changed.", nil)
	}

	if err := s.DonationRepo.UpdateStatus(ctx, kind, donationID, models.DonationStatusRescheduled, ""); err != nil {
		logger.Warn("Failed to mark old donation rescheduled; booking continues",
			zap.String("donationId", donationID), zap.Error(err))
		return nil
	}
	if old.SlotID != "" {
		if err := s.SlotRepo.ReleaseBooking(ctx, kind, old.SlotID); err != nil {
			logger.Warn("Failed to release slot unit of rescheduled donation",
				zap.String("slotId", old.SlotID), zap.Error(err))
		}
	}
	return nil
}

// Cancel marks a donation cancelled and frees its slot unit.
func (s *DefaultSubmitter) Cancel(ctx context.Context, authUserID, kind, donationID, reason string) error {
	logger := utils.GetLogger()

	donor, err := s.DonorRepo.GetByAuthID(ctx, authUserID)
	if err != nil {
		return newSchedulingError("signInRequired",
			"Please sign in to manage your donations.", err)
	}
	donation, err := s.DonationRepo.GetByID(ctx, kind, donationID)
	if err != nil {
		return newSchedulingError("donationMissing", "Donation not found.", err)
	}
	if donation.DonorID != donor.ID {
		return newSchedulingError("cancelForbidden",
			"You can only cancel your own donations.", nil)
	}
	if !models.Mutable(donation.Status) {
		return newSchedulingError("cancelFinal",
			"That donation can no longer be changed.", nil)
	}

	if err := s.DonationRepo.UpdateStatus(ctx, kind, donationID, models.DonationStatusCancelled, reason); err != nil {
		return newSchedulingError("cancelFailed", "We couldn't cancel your donation. Please try again.", err)
	}
	if donation.SlotID != "" {
		if err := s.SlotRepo.ReleaseBooking(ctx, kind, donation.SlotID); err != nil {
			logger.Warn("Failed to release slot unit of cancelled donation",
				zap.String("slotId", donation.SlotID), zap.Error(err))
		}
	}
	return nil
}

// mapBookingError translates the repository's booking failures into
// donor-facing remediation text. Matching is on message substrings because
// the same failures can surface wrapped from deeper layers.
func mapBookingError(err error) *SchedulingError {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "already has an active donation scheduled"):
		return newSchedulingError("activeDonationExists", MsgActiveDonationExists, err)
	case strings.Contains(msg, "No available slots"):
		return newSchedulingError("slotUnavailable", MsgSlotJustFilled, err)
	default:
		return newSchedulingError("bookingFailed", MsgBookingFailed, err)
	}
}

func (s *DefaultSubmitter) notifyScheduled(ctx context.Context, donorID, facilityName string, donation *models.ScheduledDonation) {
	logger := utils.GetLogger()

	title := "Donation scheduled"
	body := fmt.Sprintf("Your donation at %s is set for %s at %s.",
		facilityName, donation.ScheduledDate, donation.ScheduledTime)
	data := map[string]any{
		"donationId":    donation.ID,
		"facilityId":    donation.FacilityID,
		"scheduledDate": donation.ScheduledDate,
		"scheduledTime": donation.ScheduledTime,
	}

	if s.NotifySvc != nil {
		if err := s.NotifySvc.RecordForDonor(ctx, donorID, models.NotificationTypeDonationScheduled, title, body, data); err != nil {
			logger.Warn("Failed to record scheduling notification", zap.Error(err))
		}
		if err := s.NotifySvc.SendDonorPush(ctx, donorID, title, body, map[string]string{
			"type":       models.NotificationTypeDonationScheduled,
			"donationId": donation.ID,
		}); err != nil {
			logger.Debug("Scheduling push not delivered", zap.Error(err))
		}
	}
	if s.Reminders != nil {
		if err := s.Reminders.ScheduleDonationReminder(donation, facilityName); err != nil {
			logger.Warn("Failed to enqueue donation reminder", zap.Error(err))
		}
	}
}
