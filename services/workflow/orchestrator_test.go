// File: services/workflow/orchestrator_test.go
package workflow

import (
	"context"
	"testing"
	"time"

	"bloodlink/models"
	"bloodlink/services/scheduling"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	dir *models.FacilityDirectory
	err error
}

func (s *stubDirectory) FindFacilities(context.Context, models.Coordinates, time.Weekday) (*models.FacilityDirectory, error) {
	return s.dir, s.err
}

type stubSelector struct {
	slots []models.SlotView
}

func (s *stubSelector) ListSlots(context.Context, string, string, time.Weekday) ([]models.SlotView, error) {
	return s.slots, nil
}

type stubSubmitter struct {
	submitted []scheduling.SubmitRequest
	err       error
}

func (s *stubSubmitter) Submit(_ context.Context, req scheduling.SubmitRequest) (*models.ScheduledDonation, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.submitted = append(s.submitted, req)
	return &models.ScheduledDonation{
		ID:            "donation-1",
		FacilityID:    req.FacilityID,
		FacilityKind:  req.FacilityKind,
		SlotID:        req.SlotID,
		ScheduledDate: req.ScheduledDate,
		ScheduledTime: req.ScheduledTime,
		Status:        models.DonationStatusScheduled,
	}, nil
}

func (s *stubSubmitter) Cancel(context.Context, string, string, string, string) error { return nil }

func testDirectory() *models.FacilityDirectory {
	return &models.FacilityDirectory{
		BloodBanks: []models.FacilityMatch{
			{Facility: models.Facility{ID: "bb1", Kind: models.FacilityKindBloodBank, Name: "City Blood Bank", Verified: true}, DistanceKm: 2, HasSlots: true},
		},
		Hospitals: []models.FacilityMatch{
			{Facility: models.Facility{ID: "h1", Kind: models.FacilityKindHospital, Name: "General Hospital", Verified: true}, DistanceKm: 5, HasSlots: true},
		},
	}
}

func testSlots() []models.SlotView {
	return []models.SlotView{
		{ID: "s1", StartTime: "09:00", EndTime: "10:00", Capacity: 5, Available: true},
		{ID: "s2", StartTime: "10:00", EndTime: "11:00", Capacity: 5, BookedCount: 5, Available: false},
	}
}

func newTestWorkflow(t *testing.T) (*DefaultWorkflowService, *stubSubmitter) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	submitter := &stubSubmitter{}
	svc := &DefaultWorkflowService{
		SessionClient: client,
		DirectorySvc:  &stubDirectory{dir: testDirectory()},
		Selector:      &stubSelector{slots: testSlots()},
		Submitter:     submitter,
	}
	return svc, submitter
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func TestStartSessionMinDateIsTomorrow(t *testing.T) {
	svc, _ := newTestWorkflow(t)

	session, err := svc.StartSession(context.Background(), "donor-1", models.Coordinates{Latitude: 1, Longitude: 1}, false, "", "")
	require.NoError(t, err)
	assert.Equal(t, models.StepDateSelection, session.Step)
	assert.Equal(t, tomorrow(), session.MinDate)
	assert.NotEmpty(t, session.SessionID)
}

func TestSelectDateRejectsToday(t *testing.T) {
	svc, _ := newTestWorkflow(t)
	ctx := context.Background()
	session, err := svc.StartSession(ctx, "donor-1", models.Coordinates{}, true, "", "")
	require.NoError(t, err)

	today := time.Now().Format("2006-01-02")
	_, err = svc.SelectDate(ctx, session.SessionID, today)
	assert.Error(t, err)

	_, err = svc.SelectDate(ctx, session.SessionID, "not-a-date")
	assert.Error(t, err)
}

func TestFullSchedulingFlow(t *testing.T) {
	svc, submitter := newTestWorkflow(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "donor-1", models.Coordinates{Latitude: 28.63, Longitude: 77.21}, false, "", "")
	require.NoError(t, err)

	session, err = svc.SelectDate(ctx, session.SessionID, tomorrow())
	require.NoError(t, err)
	assert.Equal(t, models.StepFacilitySelection, session.Step)
	require.NotNil(t, session.Directory)
	require.Len(t, session.Directory.BloodBanks, 1)

	session, err = svc.SelectFacility(ctx, session.SessionID, "bb1", models.FacilityKindBloodBank)
	require.NoError(t, err)
	assert.Equal(t, models.StepSlotSelection, session.Step)
	require.Len(t, session.Slots, 2)

	session, err = svc.SelectSlot(ctx, session.SessionID, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StepConfirmation, session.Step)

	donation, err := svc.Confirm(ctx, session.SessionID, "auth-1", "first time donor")
	require.NoError(t, err)
	assert.Equal(t, "donation-1", donation.ID)

	require.Len(t, submitter.submitted, 1)
	req := submitter.submitted[0]
	assert.Equal(t, "bb1", req.FacilityID)
	assert.Equal(t, "City Blood Bank", req.FacilityName)
	assert.Equal(t, "s1", req.SlotID)
	assert.Equal(t, "09:00", req.ScheduledTime)

	// Session is torn down after a successful booking.
	_, err = svc.GetSession(ctx, session.SessionID)
	assert.Error(t, err)
}

func TestSelectSlotRejectsFullAndUnknown(t *testing.T) {
	svc, _ := newTestWorkflow(t)
	ctx := context.Background()

	session, _ := svc.StartSession(ctx, "donor-1", models.Coordinates{}, false, "", "")
	session, err := svc.SelectDate(ctx, session.SessionID, tomorrow())
	require.NoError(t, err)
	session, err = svc.SelectFacility(ctx, session.SessionID, "h1", models.FacilityKindHospital)
	require.NoError(t, err)

	_, err = svc.SelectSlot(ctx, session.SessionID, "s2")
	assert.Error(t, err, "full slot must not be selectable")

	_, err = svc.SelectSlot(ctx, session.SessionID, "nope")
	assert.Error(t, err)
}

func TestSelectFacilityRejectsUnlisted(t *testing.T) {
	svc, _ := newTestWorkflow(t)
	ctx := context.Background()

	session, _ := svc.StartSession(ctx, "donor-1", models.Coordinates{}, false, "", "")
	session, err := svc.SelectDate(ctx, session.SessionID, tomorrow())
	require.NoError(t, err)

	_, err = svc.SelectFacility(ctx, session.SessionID, "ghost", models.FacilityKindBloodBank)
	assert.Error(t, err)

	// Kind matters: bb1 is a blood bank, not a hospital.
	_, err = svc.SelectFacility(ctx, session.SessionID, "bb1", models.FacilityKindHospital)
	assert.Error(t, err)
}

func TestBackWalksOneStepAndClearsState(t *testing.T) {
	svc, _ := newTestWorkflow(t)
	ctx := context.Background()

	session, _ := svc.StartSession(ctx, "donor-1", models.Coordinates{}, false, "", "")
	session, err := svc.SelectDate(ctx, session.SessionID, tomorrow())
	require.NoError(t, err)
	session, err = svc.SelectFacility(ctx, session.SessionID, "bb1", models.FacilityKindBloodBank)
	require.NoError(t, err)
	session, err = svc.SelectSlot(ctx, session.SessionID, "s1")
	require.NoError(t, err)

	session, err = svc.Back(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepSlotSelection, session.Step)
	assert.Empty(t, session.SelectedSlot)
	assert.NotEmpty(t, session.Slots)

	session, err = svc.Back(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepFacilitySelection, session.Step)
	assert.Empty(t, session.SelectedFacility)
	assert.Empty(t, session.Slots)
	assert.NotNil(t, session.Directory)

	session, err = svc.Back(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepDateSelection, session.Step)
	assert.Empty(t, session.SelectedDate)
	assert.Nil(t, session.Directory)

	// First step: Back is a no-op, not an error.
	session, err = svc.Back(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepDateSelection, session.Step)
}

func TestStepOrderIsEnforced(t *testing.T) {
	svc, _ := newTestWorkflow(t)
	ctx := context.Background()

	session, _ := svc.StartSession(ctx, "donor-1", models.Coordinates{}, false, "", "")

	_, err := svc.SelectFacility(ctx, session.SessionID, "bb1", models.FacilityKindBloodBank)
	assert.Error(t, err)
	_, err = svc.SelectSlot(ctx, session.SessionID, "s1")
	assert.Error(t, err)
	_, err = svc.Confirm(ctx, session.SessionID, "auth-1", "")
	assert.Error(t, err)
}

func TestRestartResetsSelections(t *testing.T) {
	svc, _ := newTestWorkflow(t)
	ctx := context.Background()

	session, _ := svc.StartSession(ctx, "donor-1", models.Coordinates{Latitude: 9, Longitude: 9}, false, "", "")
	session, err := svc.SelectDate(ctx, session.SessionID, tomorrow())
	require.NoError(t, err)

	session, err = svc.Restart(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepDateSelection, session.Step)
	assert.Empty(t, session.SelectedDate)
	assert.Nil(t, session.Directory)
	assert.Equal(t, 9.0, session.Origin.Latitude)
}

func TestConfirmKeepsSessionOnBookingFailure(t *testing.T) {
	svc, submitter := newTestWorkflow(t)
	submitter.err = &scheduling.SchedulingError{Code: "slotUnavailable", UserMessage: scheduling.MsgSlotJustFilled}
	ctx := context.Background()

	session, _ := svc.StartSession(ctx, "donor-1", models.Coordinates{}, false, "", "")
	session, err := svc.SelectDate(ctx, session.SessionID, tomorrow())
	require.NoError(t, err)
	session, err = svc.SelectFacility(ctx, session.SessionID, "bb1", models.FacilityKindBloodBank)
	require.NoError(t, err)
	session, err = svc.SelectSlot(ctx, session.SessionID, "s1")
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, session.SessionID, "auth-1", "")
	require.Error(t, err)

	// The donor can go back and pick another slot.
	got, err := svc.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepConfirmation, got.Step)
}
