// File: services/scheduling/selector_test.go
package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"bloodlink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlotRepo struct {
	available    []models.DonationSlot
	availableErr error
	scanned      []models.DonationSlot
	scannedErr   error
	released     []string
}

func (f *fakeSlotRepo) CreateMany(context.Context, []models.DonationSlot) ([]string, error) {
	return nil, nil
}
func (f *fakeSlotRepo) DeleteByID(context.Context, string, string, string) error { return nil }
func (f *fakeSlotRepo) GetByID(context.Context, string, string) (*models.DonationSlot, error) {
	return nil, errors.New("not found")
}
func (f *fakeSlotRepo) GetAvailable(context.Context, string, string, time.Weekday) ([]models.DonationSlot, error) {
	return f.available, f.availableErr
}
func (f *fakeSlotRepo) GetByFacilityAndWeekday(context.Context, string, string, time.Weekday) ([]models.DonationSlot, error) {
	return f.scanned, f.scannedErr
}
func (f *fakeSlotRepo) GetOpenByWeekday(context.Context, string, time.Weekday) ([]models.DonationSlot, error) {
	return nil, nil
}
func (f *fakeSlotRepo) ReleaseBooking(_ context.Context, _ string, slotID string) error {
	f.released = append(f.released, slotID)
	return nil
}

func TestListSlotsUnifiedQuery(t *testing.T) {
	repo := &fakeSlotRepo{
		available: []models.DonationSlot{
			{ID: "s1", Start: 540, End: 600, Capacity: 5, BookedCount: 2},
			{ID: "s2", Start: 600, End: 660, Capacity: 3, BookedCount: 3},
		},
	}
	sel := &DefaultSlotSelector{SlotRepo: repo}

	views, err := sel.ListSlots(context.Background(), models.FacilityKindBloodBank, "f1", time.Monday)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "09:00", views[0].StartTime)
	assert.Equal(t, "10:00", views[0].EndTime)
	assert.True(t, views[0].Available)

	// Full slots come back flagged, not hidden.
	assert.False(t, views[1].Available)
}

func TestListSlotsFallsBackToDirectScan(t *testing.T) {
	repo := &fakeSlotRepo{
		availableErr: errors.New("aggregation unsupported"),
		scanned: []models.DonationSlot{
			{ID: "s1", Start: 480, End: 540, Capacity: 4, BookedCount: 1},
		},
	}
	sel := &DefaultSlotSelector{SlotRepo: repo}

	views, err := sel.ListSlots(context.Background(), models.FacilityKindHospital, "f1", time.Tuesday)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "08:00", views[0].StartTime)
	assert.True(t, views[0].Available)
}

func TestListSlotsSynthesizesDefaultHours(t *testing.T) {
	repo := &fakeSlotRepo{
		availableErr: errors.New("down"),
		scannedErr:   errors.New("down"),
	}
	sel := &DefaultSlotSelector{SlotRepo: repo}

	views, err := sel.ListSlots(context.Background(), models.FacilityKindBloodBank, "f1", time.Friday)
	require.NoError(t, err)

	// Hourly grid 09:00 through 17:00.
	require.Len(t, views, 8)
	assert.Equal(t, "09:00", views[0].StartTime)
	assert.Equal(t, "10:00", views[0].EndTime)
	assert.Equal(t, "16:00", views[7].StartTime)
	assert.Equal(t, "17:00", views[7].EndTime)
	for _, v := range views {
		// Placeholder rows, never bookable.
		assert.False(t, v.Available)
		assert.Equal(t, 0, v.Capacity)
		assert.True(t, IsSyntheticSlot(v.ID))
	}
}

func TestListSlotsSynthesizesWhenTablesEmpty(t *testing.T) {
	sel := &DefaultSlotSelector{SlotRepo: &fakeSlotRepo{}}

	views, err := sel.ListSlots(context.Background(), models.FacilityKindBloodBank, "f1", time.Sunday)
	require.NoError(t, err)
	require.Len(t, views, 8)
	assert.True(t, IsSyntheticSlot(views[0].ID))
}
