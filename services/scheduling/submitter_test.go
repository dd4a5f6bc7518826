// File: services/scheduling/submitter_test.go
package scheduling

import (
	"context"
	"errors"
	"testing"

	donationRepo "bloodlink/database/repository/donation"
	"bloodlink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDonorRepo struct {
	donor *models.Donor
}

func (f *fakeDonorRepo) Create(context.Context, *models.Donor) error { return nil }
func (f *fakeDonorRepo) GetByID(context.Context, string) (*models.Donor, error) {
	return f.get()
}
func (f *fakeDonorRepo) GetByAuthID(context.Context, string) (*models.Donor, error) {
	return f.get()
}
func (f *fakeDonorRepo) GetByEmail(context.Context, string) (*models.Donor, error) {
	return f.get()
}
func (f *fakeDonorRepo) Update(context.Context, *models.Donor) error          { return nil }
func (f *fakeDonorRepo) UpdateFCMToken(context.Context, string, string) error { return nil }
func (f *fakeDonorRepo) get() (*models.Donor, error) {
	if f.donor == nil {
		return nil, errors.New("donor not found")
	}
	return f.donor, nil
}

type statusChange struct {
	id     string
	status string
}

type fakeDonationRepo struct {
	existing    map[string]*models.ScheduledDonation
	scheduleErr error
	scheduled   []*models.ScheduledDonation
	updates     []statusChange
}

func (f *fakeDonationRepo) GetByID(_ context.Context, _ string, id string) (*models.ScheduledDonation, error) {
	if d, ok := f.existing[id]; ok {
		return d, nil
	}
	return nil, errors.New("donation not found")
}
func (f *fakeDonationRepo) ListByDonor(context.Context, string) ([]models.ScheduledDonation, error) {
	return nil, nil
}
func (f *fakeDonationRepo) UpdateStatus(_ context.Context, _ string, id, status, _ string) error {
	f.updates = append(f.updates, statusChange{id: id, status: status})
	if d, ok := f.existing[id]; ok {
		d.Status = status
	}
	return nil
}
func (f *fakeDonationRepo) HasActive(context.Context, string) (bool, error) { return false, nil }
func (f *fakeDonationRepo) Schedule(_ context.Context, d *models.ScheduledDonation) error {
	if f.scheduleErr != nil {
		return f.scheduleErr
	}
	f.scheduled = append(f.scheduled, d)
	return nil
}

type fakeNotifier struct {
	recorded int
	pushed   int
}

func (f *fakeNotifier) SendDonorPush(context.Context, string, string, string, map[string]string) error {
	f.pushed++
	return nil
}
func (f *fakeNotifier) RecordForDonor(context.Context, string, string, string, string, map[string]any) error {
	f.recorded++
	return nil
}

type fakeReminders struct {
	enqueued int
}

func (f *fakeReminders) ScheduleDonationReminder(*models.ScheduledDonation, string) error {
	f.enqueued++
	return nil
}

func newTestSubmitter() (*DefaultSubmitter, *fakeDonationRepo, *fakeSlotRepo, *fakeNotifier, *fakeReminders) {
	donations := &fakeDonationRepo{existing: map[string]*models.ScheduledDonation{}}
	slots := &fakeSlotRepo{}
	notifier := &fakeNotifier{}
	reminders := &fakeReminders{}
	sub := &DefaultSubmitter{
		DonorRepo:    &fakeDonorRepo{donor: &models.Donor{ID: "donor-1", AuthUserID: "auth-1"}},
		DonationRepo: donations,
		SlotRepo:     slots,
		NotifySvc:    notifier,
		Reminders:    reminders,
	}
	return sub, donations, slots, notifier, reminders
}

func TestSubmitBooksAndNotifies(t *testing.T) {
	sub, donations, _, notifier, reminders := newTestSubmitter()

	donation, err := sub.Submit(context.Background(), SubmitRequest{
		AuthUserID:    "auth-1",
		FacilityID:    "f1",
		FacilityKind:  models.FacilityKindBloodBank,
		FacilityName:  "City Blood Bank",
		SlotID:        "slot-1",
		ScheduledDate: "2026-09-07",
		ScheduledTime: "09:00",
	})
	require.NoError(t, err)
	require.Len(t, donations.scheduled, 1)
	assert.Equal(t, "donor-1", donation.DonorID)
	assert.Equal(t, "slot-1", donation.SlotID)
	assert.Equal(t, models.DonationStatusScheduled, donation.Status)
	assert.Equal(t, 1, notifier.recorded)
	assert.Equal(t, 1, notifier.pushed)
	assert.Equal(t, 1, reminders.enqueued)
}

func TestSubmitRequiresSignIn(t *testing.T) {
	sub, donations, _, _, _ := newTestSubmitter()
	sub.DonorRepo = &fakeDonorRepo{}

	_, err := sub.Submit(context.Background(), SubmitRequest{AuthUserID: "ghost"})
	require.Error(t, err)
	var schedErr *SchedulingError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, "signInRequired", schedErr.Code)
	assert.Empty(t, donations.scheduled)
}

func TestSubmitMapsKnownBookingErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode string
		wantMsg  string
	}{
		{"active donation", donationRepo.ErrActiveDonationExists, "activeDonationExists", MsgActiveDonationExists},
		{"slot filled", donationRepo.ErrNoAvailableSlots, "slotUnavailable", MsgSlotJustFilled},
		{"wrapped slot filled", errors.New("txn aborted: No available slots"), "slotUnavailable", MsgSlotJustFilled},
		{"unknown", errors.New("connection reset"), "bookingFailed", MsgBookingFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub, donations, _, _, _ := newTestSubmitter()
			donations.scheduleErr = tc.err

			_, err := sub.Submit(context.Background(), SubmitRequest{
				AuthUserID: "auth-1", FacilityID: "f1", FacilityKind: models.FacilityKindBloodBank,
			})
			var schedErr *SchedulingError
			require.ErrorAs(t, err, &schedErr)
			assert.Equal(t, tc.wantCode, schedErr.Code)
			assert.Equal(t, tc.wantMsg, schedErr.UserMessage)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestSubmitSyntheticSlotCarriesNoSlotReference(t *testing.T) {
	sub, donations, _, _, _ := newTestSubmitter()

	donation, err := sub.Submit(context.Background(), SubmitRequest{
		AuthUserID:    "auth-1",
		FacilityID:    "f1",
		FacilityKind:  models.FacilityKindHospital,
		SlotID:        SyntheticSlotPrefix + "10:00",
		ScheduledDate: "2026-09-07",
		ScheduledTime: "10:00",
	})
	require.NoError(t, err)
	require.Len(t, donations.scheduled, 1)
	assert.Empty(t, donation.SlotID)
}

func TestSubmitRescheduleReleasesOldBooking(t *testing.T) {
	sub, donations, slots, _, _ := newTestSubmitter()
	donations.existing["old-1"] = &models.ScheduledDonation{
		ID: "old-1", DonorID: "donor-1", SlotID: "slot-old",
		Status: models.DonationStatusScheduled,
	}

	_, err := sub.Submit(context.Background(), SubmitRequest{
		AuthUserID:     "auth-1",
		FacilityID:     "f2",
		FacilityKind:   models.FacilityKindBloodBank,
		SlotID:         "slot-new",
		ScheduledDate:  "2026-09-08",
		ScheduledTime:  "11:00",
		RescheduleID:   "old-1",
		RescheduleKind: models.FacilityKindBloodBank,
	})
	require.NoError(t, err)
	require.Len(t, donations.updates, 1)
	assert.Equal(t, models.DonationStatusRescheduled, donations.updates[0].status)
	assert.Equal(t, []string{"slot-old"}, slots.released)
	require.Len(t, donations.scheduled, 1)
}

func TestSubmitRescheduleGatesOnFinalStatus(t *testing.T) {
	for _, status := range []string{
		models.DonationStatusCancelled,
		models.DonationStatusCompleted,
		models.DonationStatusRejected,
		models.DonationStatusRescheduled,
	} {
		t.Run(status, func(t *testing.T) {
			sub, donations, slots, _, _ := newTestSubmitter()
			donations.existing["old-1"] = &models.ScheduledDonation{
				ID: "old-1", DonorID: "donor-1", SlotID: "slot-old", Status: status,
			}

			_, err := sub.Submit(context.Background(), SubmitRequest{
				AuthUserID:     "auth-1",
				FacilityID:     "f2",
				FacilityKind:   models.FacilityKindBloodBank,
				RescheduleID:   "old-1",
				RescheduleKind: models.FacilityKindBloodBank,
			})
			var schedErr *SchedulingError
			require.ErrorAs(t, err, &schedErr)
			assert.Equal(t, "rescheduleFinal", schedErr.Code)

			// Gate fires before any write.
			assert.Empty(t, donations.updates)
			assert.Empty(t, donations.scheduled)
			assert.Empty(t, slots.released)
		})
	}
}

func TestSubmitRescheduleForbidsOtherDonors(t *testing.T) {
	sub, donations, _, _, _ := newTestSubmitter()
	donations.existing["old-1"] = &models.ScheduledDonation{
		ID: "old-1", DonorID: "someone-else", Status: models.DonationStatusScheduled,
	}

	_, err := sub.Submit(context.Background(), SubmitRequest{
		AuthUserID:     "auth-1",
		RescheduleID:   "old-1",
		RescheduleKind: models.FacilityKindBloodBank,
	})
	var schedErr *SchedulingError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, "rescheduleForbidden", schedErr.Code)
}

func TestCancelReleasesSlot(t *testing.T) {
	sub, donations, slots, _, _ := newTestSubmitter()
	donations.existing["d1"] = &models.ScheduledDonation{
		ID: "d1", DonorID: "donor-1", SlotID: "slot-1",
		Status: models.DonationStatusConfirmed,
	}

	err := sub.Cancel(context.Background(), "auth-1", models.FacilityKindBloodBank, "d1", "travelling")
	require.NoError(t, err)
	require.Len(t, donations.updates, 1)
	assert.Equal(t, models.DonationStatusCancelled, donations.updates[0].status)
	assert.Equal(t, []string{"slot-1"}, slots.released)
}

func TestCancelGatesOnFinalStatus(t *testing.T) {
	sub, donations, slots, _, _ := newTestSubmitter()
	donations.existing["d1"] = &models.ScheduledDonation{
		ID: "d1", DonorID: "donor-1", Status: models.DonationStatusCompleted,
	}

	err := sub.Cancel(context.Background(), "auth-1", models.FacilityKindBloodBank, "d1", "")
	var schedErr *SchedulingError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, "cancelFinal", schedErr.Code)
	assert.Empty(t, donations.updates)
	assert.Empty(t, slots.released)
}
