package models

import "time"

// Scheduled donation statuses. A record is never hard-deleted; every
// transition is a status change.
const (
	DonationStatusScheduled   = "scheduled"
	DonationStatusConfirmed   = "confirmed"
	DonationStatusRescheduled = "rescheduled"
	DonationStatusCancelled   = "cancelled"
	DonationStatusCompleted   = "completed"
	DonationStatusRejected    = "rejected"
)

// ScheduledDonation links a donor, a facility, optionally a slot, and a date/time.
type ScheduledDonation struct {
	ID            string    `bson:"id" json:"id"`
	DonorID       string    `bson:"donorId" json:"donorId"`
	FacilityID    string    `bson:"facilityId" json:"facilityId"`
	FacilityKind  string    `bson:"facilityKind" json:"facilityKind"`
	SlotID        string    `bson:"slotId,omitempty" json:"slotId,omitempty"`
	ScheduledDate string    `bson:"scheduledDate" json:"scheduledDate"` // "2006-01-02"
	ScheduledTime string    `bson:"scheduledTime" json:"scheduledTime"` // "HH:MM"
	Status        string    `bson:"status" json:"status"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CancelReason  string    `bson:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// Mutable reports whether a donation may still be rescheduled or cancelled.
// Only scheduled and confirmed donations are; completed, rejected and already
// cancelled/rescheduled records are final.
func Mutable(status string) bool {
	return status == DonationStatusScheduled || status == DonationStatusConfirmed
}

// Active reports whether the donation still occupies the donor's single
// active-booking allowance.
func (d ScheduledDonation) Active() bool {
	return Mutable(d.Status)
}
