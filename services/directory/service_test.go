// File: services/directory/service_test.go
package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"bloodlink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFacilityRepo struct {
	matches    map[string][]models.FacilityMatch
	facilities map[string][]models.Facility
	searchErr  error
}

func (f *fakeFacilityRepo) Create(context.Context, *models.Facility) error { return nil }
func (f *fakeFacilityRepo) GetByID(context.Context, string, string) (*models.Facility, error) {
	return nil, errors.New("not found")
}
func (f *fakeFacilityRepo) GetByEmail(context.Context, string, string) (*models.Facility, error) {
	return nil, errors.New("not found")
}
func (f *fakeFacilityRepo) Update(context.Context, *models.Facility) error          { return nil }
func (f *fakeFacilityRepo) SetVerified(context.Context, string, string, bool) error { return nil }

func (f *fakeFacilityRepo) GetManyByIDs(_ context.Context, kind string, ids []string) ([]models.Facility, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Facility
	for _, fac := range f.facilities[kind] {
		if want[fac.ID] {
			out = append(out, fac)
		}
	}
	return out, nil
}

func (f *fakeFacilityRepo) FindWithSlots(_ context.Context, kind string, _ time.Weekday, _ models.GeoPoint, _ float64) ([]models.FacilityMatch, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.matches[kind], nil
}

type fakeSlotRepo struct {
	open map[string][]models.DonationSlot
}

func (f *fakeSlotRepo) CreateMany(context.Context, []models.DonationSlot) ([]string, error) {
	return nil, nil
}
func (f *fakeSlotRepo) DeleteByID(context.Context, string, string, string) error { return nil }
func (f *fakeSlotRepo) GetByID(context.Context, string, string) (*models.DonationSlot, error) {
	return nil, errors.New("not found")
}
func (f *fakeSlotRepo) GetAvailable(context.Context, string, string, time.Weekday) ([]models.DonationSlot, error) {
	return nil, nil
}
func (f *fakeSlotRepo) GetByFacilityAndWeekday(context.Context, string, string, time.Weekday) ([]models.DonationSlot, error) {
	return nil, nil
}
func (f *fakeSlotRepo) GetOpenByWeekday(_ context.Context, kind string, _ time.Weekday) ([]models.DonationSlot, error) {
	return f.open[kind], nil
}
func (f *fakeSlotRepo) ReleaseBooking(context.Context, string, string) error { return nil }

func facilityAt(id, kind string, lat, lng float64, verified bool) models.Facility {
	return models.Facility{
		ID:          id,
		Kind:        kind,
		Name:        "Facility " + id,
		LocationGeo: models.NewGeoPoint(lat, lng),
		Verified:    verified,
	}
}

func TestFindFacilitiesPrimaryPath(t *testing.T) {
	origin := models.Coordinates{Latitude: 28.63, Longitude: 77.21}
	facRepo := &fakeFacilityRepo{
		matches: map[string][]models.FacilityMatch{
			models.FacilityKindBloodBank: {
				{Facility: facilityAt("bb1", models.FacilityKindBloodBank, 28.64, 77.22, true), DistanceKm: 1.5, HasSlots: true},
				{Facility: facilityAt("bb2", models.FacilityKindBloodBank, 28.70, 77.30, true), DistanceKm: 11.0, HasSlots: false},
			},
			models.FacilityKindHospital: {
				{Facility: facilityAt("h1", models.FacilityKindHospital, 28.65, 77.25, true), DistanceKm: 4.2, HasSlots: true},
			},
		},
	}
	svc := &DefaultDirectoryService{FacilityRepo: facRepo, SlotRepo: &fakeSlotRepo{}}

	dir, err := svc.FindFacilities(context.Background(), origin, time.Monday)
	require.NoError(t, err)

	// Slotless facilities are dropped, not marked.
	require.Len(t, dir.BloodBanks, 1)
	assert.Equal(t, "bb1", dir.BloodBanks[0].ID)
	require.Len(t, dir.Hospitals, 1)
	assert.Equal(t, "h1", dir.Hospitals[0].ID)

	// Travel estimates derive from distance at 30 km/h.
	assert.Equal(t, 3, dir.BloodBanks[0].EstimatedTimeMinutes)
	assert.Equal(t, 8, dir.Hospitals[0].EstimatedTimeMinutes)
}

func TestFindFacilitiesFallbackWhenGeoSearchEmpty(t *testing.T) {
	origin := models.Coordinates{Latitude: 28.63, Longitude: 77.21}
	facRepo := &fakeFacilityRepo{
		matches: map[string][]models.FacilityMatch{},
		facilities: map[string][]models.Facility{
			models.FacilityKindBloodBank: {
				facilityAt("far", models.FacilityKindBloodBank, 28.90, 77.60, true),
				facilityAt("near", models.FacilityKindBloodBank, 28.64, 77.22, true),
				facilityAt("unverified", models.FacilityKindBloodBank, 28.63, 77.21, false),
			},
		},
	}
	slotRepo := &fakeSlotRepo{
		open: map[string][]models.DonationSlot{
			models.FacilityKindBloodBank: {
				{ID: "s1", FacilityID: "near", Weekday: time.Monday, Start: 540, End: 600, Capacity: 5},
				{ID: "s2", FacilityID: "far", Weekday: time.Monday, Start: 540, End: 600, Capacity: 5},
				{ID: "s3", FacilityID: "unverified", Weekday: time.Monday, Start: 540, End: 600, Capacity: 5},
				{ID: "s4", FacilityID: "full", Weekday: time.Monday, Start: 540, End: 600, Capacity: 2, BookedCount: 2},
			},
		},
	}
	svc := &DefaultDirectoryService{FacilityRepo: facRepo, SlotRepo: slotRepo}

	dir, err := svc.FindFacilities(context.Background(), origin, time.Monday)
	require.NoError(t, err)

	// Unverified facilities and full slots never surface; results sort nearest first.
	require.Len(t, dir.BloodBanks, 2)
	assert.Equal(t, "near", dir.BloodBanks[0].ID)
	assert.Equal(t, "far", dir.BloodBanks[1].ID)
	assert.True(t, dir.BloodBanks[0].DistanceKm < dir.BloodBanks[1].DistanceKm)
	assert.True(t, dir.BloodBanks[0].HasSlots)
}

func TestFindFacilitiesFallbackOnlyWhenBothKindsEmpty(t *testing.T) {
	origin := models.Coordinates{Latitude: 28.63, Longitude: 77.21}
	// Hospitals found by geo search: the fallback must not run even though
	// blood banks came back empty.
	facRepo := &fakeFacilityRepo{
		matches: map[string][]models.FacilityMatch{
			models.FacilityKindHospital: {
				{Facility: facilityAt("h1", models.FacilityKindHospital, 28.65, 77.25, true), DistanceKm: 4.2, HasSlots: true},
			},
		},
	}
	slotRepo := &fakeSlotRepo{
		open: map[string][]models.DonationSlot{
			models.FacilityKindBloodBank: {
				{ID: "s1", FacilityID: "bb1", Weekday: time.Monday, Start: 540, End: 600, Capacity: 5},
			},
		},
	}
	svc := &DefaultDirectoryService{FacilityRepo: facRepo, SlotRepo: slotRepo}

	dir, err := svc.FindFacilities(context.Background(), origin, time.Monday)
	require.NoError(t, err)
	assert.Empty(t, dir.BloodBanks)
	require.Len(t, dir.Hospitals, 1)
}

func TestFindFacilitiesSearchErrorDegradesToFallback(t *testing.T) {
	origin := models.Coordinates{Latitude: 28.63, Longitude: 77.21}
	facRepo := &fakeFacilityRepo{
		searchErr: errors.New("index missing"),
		facilities: map[string][]models.Facility{
			models.FacilityKindHospital: {
				facilityAt("h1", models.FacilityKindHospital, 28.65, 77.25, true),
			},
		},
	}
	slotRepo := &fakeSlotRepo{
		open: map[string][]models.DonationSlot{
			models.FacilityKindHospital: {
				{ID: "s1", FacilityID: "h1", Weekday: time.Monday, Start: 540, End: 600, Capacity: 5},
			},
		},
	}
	svc := &DefaultDirectoryService{FacilityRepo: facRepo, SlotRepo: slotRepo}

	// A broken geo index must not surface; the slot scan still finds candidates.
	dir, err := svc.FindFacilities(context.Background(), origin, time.Monday)
	require.NoError(t, err)
	assert.Empty(t, dir.BloodBanks)
	require.Len(t, dir.Hospitals, 1)
	assert.Equal(t, "h1", dir.Hospitals[0].ID)
}
