// File: services/notification/service_test.go
package notification

import (
	"context"
	"errors"
	"testing"

	"bloodlink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type insertCall struct {
	notification models.Notification
	includeField bool
}

type fakeNotificationRepo struct {
	calls     []insertCall
	rejectOn  func(includeField bool) error
	listed    []models.Notification
	markedIDs []string
}

func (f *fakeNotificationRepo) Insert(_ context.Context, n *models.Notification, includeRecipientType bool) error {
	f.calls = append(f.calls, insertCall{notification: *n, includeField: includeRecipientType})
	if f.rejectOn != nil {
		return f.rejectOn(includeRecipientType)
	}
	return nil
}

func (f *fakeNotificationRepo) ListByUser(context.Context, string, int64) ([]models.Notification, error) {
	return f.listed, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	f.markedIDs = append(f.markedIDs, id)
	return nil
}

func (f *fakeNotificationRepo) MarkHandled(_ context.Context, id string) error {
	f.markedIDs = append(f.markedIDs, id)
	return nil
}

type fakeDonorRepo struct {
	donor *models.Donor
}

func (f *fakeDonorRepo) Create(context.Context, *models.Donor) error { return nil }
func (f *fakeDonorRepo) GetByID(context.Context, string) (*models.Donor, error) {
	if f.donor == nil {
		return nil, errors.New("donor not found")
	}
	return f.donor, nil
}
func (f *fakeDonorRepo) GetByAuthID(context.Context, string) (*models.Donor, error) {
	return f.GetByID(context.Background(), "")
}
func (f *fakeDonorRepo) GetByEmail(context.Context, string) (*models.Donor, error) {
	return f.GetByID(context.Background(), "")
}
func (f *fakeDonorRepo) Update(context.Context, *models.Donor) error          { return nil }
func (f *fakeDonorRepo) UpdateFCMToken(context.Context, string, string) error { return nil }

func TestRecordForDonorHappyPath(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc, err := NewDefaultNotificationService(repo, &fakeDonorRepo{})
	require.NoError(t, err)

	err = svc.RecordForDonor(context.Background(), "donor-1", models.NotificationTypeDonationScheduled,
		"Donation scheduled", "See you Monday", nil)
	require.NoError(t, err)

	require.Len(t, repo.calls, 1)
	assert.True(t, repo.calls[0].includeField)
	assert.Equal(t, "donor", repo.calls[0].notification.RecipientType)
	assert.Equal(t, "donor-1", repo.calls[0].notification.UserID)
}

func TestRecordForDonorRetriesOnceOnSchemaRejection(t *testing.T) {
	repo := &fakeNotificationRepo{
		rejectOn: func(includeField bool) error {
			if includeField {
				return errors.New("write exception: Document failed validation")
			}
			return nil
		},
	}
	svc, err := NewDefaultNotificationService(repo, &fakeDonorRepo{})
	require.NoError(t, err)

	err = svc.RecordForDonor(context.Background(), "donor-1", models.NotificationTypeAppointment,
		"Reminder", "Tomorrow at 10:00", nil)
	require.NoError(t, err)

	// Exactly one retry, without the drifted field.
	require.Len(t, repo.calls, 2)
	assert.True(t, repo.calls[0].includeField)
	assert.False(t, repo.calls[1].includeField)

	// The probe outcome sticks: the next write skips the field outright.
	err = svc.RecordForDonor(context.Background(), "donor-2", models.NotificationTypeAppointment,
		"Reminder", "Tomorrow at 11:00", nil)
	require.NoError(t, err)
	require.Len(t, repo.calls, 3)
	assert.False(t, repo.calls[2].includeField)
}

func TestRecordForDonorPropagatesNonSchemaErrors(t *testing.T) {
	repo := &fakeNotificationRepo{
		rejectOn: func(bool) error { return errors.New("connection reset") },
	}
	svc, err := NewDefaultNotificationService(repo, &fakeDonorRepo{})
	require.NoError(t, err)

	err = svc.RecordForDonor(context.Background(), "donor-1", models.NotificationTypeAppointment,
		"Reminder", "body", nil)
	require.Error(t, err)
	// No blind retry on unrelated failures.
	assert.Len(t, repo.calls, 1)
}
