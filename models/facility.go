package models

import "time"

// Facility kinds. Blood banks and hospitals are structurally identical for
// scheduling purposes but live in separate collections.
const (
	FacilityKindBloodBank = "blood_bank"
	FacilityKindHospital  = "hospital"
)

// Facility represents a blood bank or hospital capable of hosting donation
// appointments. Created by the registration flow; read-only for scheduling.
type Facility struct {
	ID             string    `bson:"id" json:"id"`
	Kind           string    `bson:"kind" json:"kind"`
	Name           string    `bson:"name" json:"name"`
	Address        string    `bson:"address" json:"address"`
	City           string    `bson:"city" json:"city"`
	PhoneNumber    string    `bson:"phoneNumber" json:"phoneNumber,omitempty"`
	Email          string    `bson:"email" json:"email,omitempty"`
	PasswordHash   string    `bson:"passwordHash" json:"-"`
	OperatingHours string    `bson:"operatingHours" json:"operatingHours,omitempty"`
	LocationGeo    GeoPoint  `bson:"locationGeo" json:"locationGeo"`
	LicenseNumber  string    `bson:"licenseNumber" json:"licenseNumber,omitempty"`
	LicenseDocID   string    `bson:"licenseDocId,omitempty" json:"licenseDocId,omitempty"`
	Verified       bool      `bson:"verified" json:"verified"` // must be true to be offered to donors
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// FacilityRegistration is the facility signup payload.
type FacilityRegistration struct {
	Kind           string  `json:"kind" binding:"required,oneof=blood_bank hospital"`
	Name           string  `json:"name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=8"`
	Address        string  `json:"address" binding:"required"`
	City           string  `json:"city" binding:"required"`
	PhoneNumber    string  `json:"phoneNumber"`
	OperatingHours string  `json:"operatingHours"`
	LicenseNumber  string  `json:"licenseNumber" binding:"required"`
	Latitude       float64 `json:"latitude" binding:"required"`
	Longitude      float64 `json:"longitude" binding:"required"`
}

// FacilityMatch is a facility annotated with search results for the donor.
type FacilityMatch struct {
	Facility              `bson:",inline"`
	DistanceKm            float64 `bson:"distanceKm" json:"distanceKm"`
	HasSlots              bool    `bson:"hasSlots" json:"hasSlots"`
	EstimatedTimeMinutes  int     `bson:"-" json:"estimatedTimeMinutes"`
	ActualDurationMinutes int     `bson:"-" json:"actualDurationMinutes,omitempty"`
}

// FacilityDirectory groups matched facilities by kind.
type FacilityDirectory struct {
	BloodBanks []FacilityMatch `json:"bloodBanks"`
	Hospitals  []FacilityMatch `json:"hospitals"`
}

// Empty reports whether no slot-bearing facility was found in either kind.
func (d FacilityDirectory) Empty() bool {
	return len(d.BloodBanks) == 0 && len(d.Hospitals) == 0
}
