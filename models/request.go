package models

import "time"

// Emergency blood request statuses.
const (
	RequestStatusOpen      = "open"
	RequestStatusMatched   = "matched"
	RequestStatusFulfilled = "fulfilled"
	RequestStatusExpired   = "expired"
)

// BloodRequest is an emergency request raised by a hospital.
type BloodRequest struct {
	ID          string    `bson:"id" json:"id"`
	HospitalID  string    `bson:"hospitalId" json:"hospitalId"`
	BloodGroup  string    `bson:"bloodGroup" json:"bloodGroup"`
	Units       int       `bson:"units" json:"units"`
	Urgency     string    `bson:"urgency" json:"urgency"` // "normal" or "critical"
	PatientRef  string    `bson:"patientRef,omitempty" json:"patientRef,omitempty"`
	Status      string    `bson:"status" json:"status"`
	MatchedID   string    `bson:"matchedDonorId,omitempty" json:"matchedDonorId,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	FulfilledAt time.Time `bson:"fulfilledAt,omitzero" json:"fulfilledAt,omitzero"`
}

// DonationConfirmation is the input to the atomic confirmation operation:
// inventory credit, request status change, donation completion and the
// donor-facing notification all commit together.
type DonationConfirmation struct {
	RequestID       string `json:"requestId" binding:"required"`
	DonorID         string `json:"donorId" binding:"required"`
	UnitsDonated    int    `json:"unitsDonated" binding:"required,min=1"`
	HospitalName    string `json:"hospitalName"`
	HospitalAddress string `json:"hospitalAddress"`
}

// InventoryEntry tracks units on hand per facility and blood group.
type InventoryEntry struct {
	FacilityID string    `bson:"facilityId" json:"facilityId"`
	BloodGroup string    `bson:"bloodGroup" json:"bloodGroup"`
	Units      int       `bson:"units" json:"units"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}
