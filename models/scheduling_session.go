package models

// Workflow steps of the donation scheduling stepper. Linear, with single-step
// back navigation; CONFIRMATION is terminal except for an explicit restart.
const (
	StepDateSelection     = "DATE_SELECTION"
	StepFacilitySelection = "FACILITY_SELECTION"
	StepSlotSelection     = "SLOT_SELECTION"
	StepConfirmation      = "CONFIRMATION"
)

// SchedulingSession holds the transient selection state between the stepper's
// screens. It lives in Redis and is discarded on completion or restart.
type SchedulingSession struct {
	SessionID string `json:"sessionId"`
	DonorID   string `json:"donorId"`
	Step      string `json:"step"`

	Origin        Coordinates `json:"origin"`
	UsedFallback  bool        `json:"usedFallbackLocation,omitempty"`
	MinDate       string      `json:"minDate"` // earliest selectable date, "2006-01-02"
	SelectedDate  string      `json:"selectedDate,omitempty"`
	RescheduleID  string      `json:"rescheduleId,omitempty"`
	RescheduleKnd string      `json:"rescheduleKind,omitempty"`

	Directory        *FacilityDirectory `json:"directory,omitempty"`
	SelectedFacility string             `json:"selectedFacilityId,omitempty"`
	SelectedKind     string             `json:"selectedFacilityKind,omitempty"`

	Slots        []SlotView `json:"slots,omitempty"`
	SelectedSlot string     `json:"selectedSlotId,omitempty"`

	Booking *ScheduledDonation `json:"booking,omitempty"`
}
