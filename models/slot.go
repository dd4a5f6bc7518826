package models

import (
	"fmt"
	"time"
)

// DonationSlot is a recurring weekly time window at a facility with a donor
// capacity. Start/End are minutes from midnight (e.g., 540 for 9:00 AM).
// Weekday uses time.Weekday (Sunday = 0) on both sides of the repository
// boundary; no free-text day names cross it.
type DonationSlot struct {
	ID           string       `bson:"id" json:"id"`
	FacilityID   string       `bson:"facilityId" json:"facilityId"`
	FacilityKind string       `bson:"facilityKind" json:"facilityKind"`
	Weekday      time.Weekday `bson:"weekday" json:"weekday"`
	Start        int          `bson:"start" json:"start"`
	End          int          `bson:"end" json:"end"`
	Capacity     int          `bson:"capacity" json:"capacity"`
	BookedCount  int          `bson:"bookedCount" json:"bookedCount"`
	Version      int          `bson:"version" json:"version"`
}

// Full reports whether the slot has no remaining capacity.
// Invariant: bookedCount <= capacity; a full slot is not offerable.
func (s DonationSlot) Full() bool {
	return s.BookedCount >= s.Capacity
}

// SlotView is the display shape of a slot, with clock times normalized to
// zero-padded HH:MM.
type SlotView struct {
	ID          string `json:"id"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Capacity    int    `json:"capacity"`
	BookedCount int    `json:"bookedCount"`
	Available   bool   `json:"available"`
}

// ViewOf builds the display shape for a slot.
func ViewOf(s DonationSlot, available bool) SlotView {
	return SlotView{
		ID:          s.ID,
		StartTime:   FormatClock(s.Start),
		EndTime:     FormatClock(s.End),
		Capacity:    s.Capacity,
		BookedCount: s.BookedCount,
		Available:   available,
	}
}

// FormatClock renders minutes-from-midnight as zero-padded HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
