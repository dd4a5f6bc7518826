// File: services/workflow/orchestrator.go
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bloodlink/models"
	"bloodlink/services/directory"
	"bloodlink/services/scheduling"
	"bloodlink/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionTTL = 30 * time.Minute

// WorkflowService drives the donor-facing scheduling stepper:
// DATE_SELECTION -> FACILITY_SELECTION -> SLOT_SELECTION -> CONFIRMATION.
// Each step persists the session back to Redis; Back walks one step up.
type WorkflowService interface {
	StartSession(ctx context.Context, donorID string, origin models.Coordinates, usedFallback bool, rescheduleID, rescheduleKind string) (*models.SchedulingSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.SchedulingSession, error)
	SelectDate(ctx context.Context, sessionID, date string) (*models.SchedulingSession, error)
	SelectFacility(ctx context.Context, sessionID, facilityID, kind string) (*models.SchedulingSession, error)
	SelectSlot(ctx context.Context, sessionID, slotID string) (*models.SchedulingSession, error)
	Confirm(ctx context.Context, sessionID, authUserID, notes string) (*models.ScheduledDonation, error)
	Back(ctx context.Context, sessionID string) (*models.SchedulingSession, error)
	Restart(ctx context.Context, sessionID string) (*models.SchedulingSession, error)
	CancelSession(ctx context.Context, sessionID string) error
}

// DefaultWorkflowService is the production implementation.
type DefaultWorkflowService struct {
	SessionClient *redis.Client
	DirectorySvc  directory.DirectoryService
	Selector      scheduling.SlotSelector
	Submitter     scheduling.Submitter
}

// StartSession opens a fresh stepper session. The earliest selectable date is
// tomorrow; same-day bookings are never offered.
func (s *DefaultWorkflowService) StartSession(ctx context.Context, donorID string, origin models.Coordinates, usedFallback bool, rescheduleID, rescheduleKind string) (*models.SchedulingSession, error) {
	session := &models.SchedulingSession{
		SessionID:     uuid.New().String(),
		DonorID:       donorID,
		Step:          models.StepDateSelection,
		Origin:        origin,
		UsedFallback:  usedFallback,
		MinDate:       time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		RescheduleID:  rescheduleID,
		RescheduleKnd: rescheduleKind,
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Scheduling session started",
		zap.String("sessionId", session.SessionID),
		zap.Bool("usedFallback", usedFallback))
	return session, nil
}

func (s *DefaultWorkflowService) GetSession(ctx context.Context, sessionID string) (*models.SchedulingSession, error) {
	return s.load(ctx, sessionID)
}

// SelectDate validates the chosen date and moves to facility selection with a
// freshly searched directory.
func (s *DefaultWorkflowService) SelectDate(ctx context.Context, sessionID, date string) (*models.SchedulingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepDateSelection {
		return nil, fmt.Errorf("cannot select a date from step %s", session.Step)
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	// ISO dates compare lexicographically.
	if date < session.MinDate {
		return nil, fmt.Errorf("date %s is before the earliest bookable date %s", date, session.MinDate)
	}

	dir, err := s.DirectorySvc.FindFacilities(ctx, session.Origin, day.Weekday())
	if err != nil {
		return nil, fmt.Errorf("failed to search facilities: %w", err)
	}
	if dir.Empty() {
		return nil, fmt.Errorf("no facilities have open slots on %s; pick another date", date)
	}

	session.SelectedDate = date
	session.Directory = dir
	session.Step = models.StepFacilitySelection
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectFacility validates the facility against the searched directory and
// moves to slot selection.
func (s *DefaultWorkflowService) SelectFacility(ctx context.Context, sessionID, facilityID, kind string) (*models.SchedulingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepFacilitySelection {
		return nil, fmt.Errorf("cannot select a facility from step %s", session.Step)
	}
	if session.Directory == nil || !directoryContains(session.Directory, facilityID, kind) {
		return nil, fmt.Errorf("facility %s is not among the offered results", facilityID)
	}

	day, err := time.Parse("2006-01-02", session.SelectedDate)
	if err != nil {
		return nil, fmt.Errorf("session has no valid selected date")
	}
	slots, err := s.Selector.ListSlots(ctx, kind, facilityID, day.Weekday())
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}

	session.SelectedFacility = facilityID
	session.SelectedKind = kind
	session.Slots = slots
	session.Step = models.StepSlotSelection
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectSlot validates the slot against the offered list and moves to
// confirmation.
func (s *DefaultWorkflowService) SelectSlot(ctx context.Context, sessionID, slotID string) (*models.SchedulingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepSlotSelection {
		return nil, fmt.Errorf("cannot select a slot from step %s", session.Step)
	}

	found := false
	for _, v := range session.Slots {
		if v.ID == slotID {
			if !v.Available {
				return nil, fmt.Errorf("slot %s is full", slotID)
			}
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("slot %s is not among the offered slots", slotID)
	}

	session.SelectedSlot = slotID
	session.Step = models.StepConfirmation
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Confirm submits the booking and tears the session down on success.
func (s *DefaultWorkflowService) Confirm(ctx context.Context, sessionID, authUserID, notes string) (*models.ScheduledDonation, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != models.StepConfirmation {
		return nil, fmt.Errorf("cannot confirm from step %s", session.Step)
	}

	var facilityName string
	var scheduledTime string
	if m := matchInDirectory(session.Directory, session.SelectedFacility, session.SelectedKind); m != nil {
		facilityName = m.Name
	}
	for _, v := range session.Slots {
		if v.ID == session.SelectedSlot {
			scheduledTime = v.StartTime
			break
		}
	}

	donation, err := s.Submitter.Submit(ctx, scheduling.SubmitRequest{
		AuthUserID:     authUserID,
		FacilityID:     session.SelectedFacility,
		FacilityKind:   session.SelectedKind,
		FacilityName:   facilityName,
		SlotID:         session.SelectedSlot,
		ScheduledDate:  session.SelectedDate,
		ScheduledTime:  scheduledTime,
		Notes:          notes,
		RescheduleID:   session.RescheduleID,
		RescheduleKind: session.RescheduleKnd,
	})
	if err != nil {
		return nil, err
	}

	session.Booking = donation
	s.SessionClient.Del(ctx, sessionID)
	return donation, nil
}

// Back moves one step up the stepper, clearing the state the abandoned step
// produced. At the first step it is a no-op.
func (s *DefaultWorkflowService) Back(ctx context.Context, sessionID string) (*models.SchedulingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Step {
	case models.StepDateSelection:
		return session, nil
	case models.StepFacilitySelection:
		session.Step = models.StepDateSelection
		session.SelectedDate = ""
		session.Directory = nil
	case models.StepSlotSelection:
		session.Step = models.StepFacilitySelection
		session.SelectedFacility = ""
		session.SelectedKind = ""
		session.Slots = nil
	case models.StepConfirmation:
		session.Step = models.StepSlotSelection
		session.SelectedSlot = ""
	default:
		return nil, fmt.Errorf("unknown step %s", session.Step)
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Restart resets the stepper to date selection, keeping identity and origin.
func (s *DefaultWorkflowService) Restart(ctx context.Context, sessionID string) (*models.SchedulingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.Step = models.StepDateSelection
	session.SelectedDate = ""
	session.Directory = nil
	session.SelectedFacility = ""
	session.SelectedKind = ""
	session.Slots = nil
	session.SelectedSlot = ""
	session.Booking = nil
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultWorkflowService) CancelSession(ctx context.Context, sessionID string) error {
	return s.SessionClient.Del(ctx, sessionID).Err()
}

func (s *DefaultWorkflowService) load(ctx context.Context, sessionID string) (*models.SchedulingSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("scheduling session not initialized")
	}
	data, err := s.SessionClient.Get(ctx, sessionID).Result()
	if err != nil {
		return nil, fmt.Errorf("scheduling session not found or expired: %w", err)
	}
	var session models.SchedulingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse scheduling session: %w", err)
	}
	return &session, nil
}

func (s *DefaultWorkflowService) save(ctx context.Context, session *models.SchedulingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal scheduling session: %w", err)
	}
	if err := s.SessionClient.Set(ctx, session.SessionID, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store scheduling session: %w", err)
	}
	return nil
}

func directoryContains(dir *models.FacilityDirectory, facilityID, kind string) bool {
	return matchInDirectory(dir, facilityID, kind) != nil
}

func matchInDirectory(dir *models.FacilityDirectory, facilityID, kind string) *models.FacilityMatch {
	if dir == nil {
		return nil
	}
	group := dir.BloodBanks
	if kind == models.FacilityKindHospital {
		group = dir.Hospitals
	}
	for i := range group {
		if group[i].ID == facilityID {
			return &group[i]
		}
	}
	return nil
}
