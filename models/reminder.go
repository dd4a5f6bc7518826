package models

// ReminderPayload is the asynq task body for appointment reminders.
type ReminderPayload struct {
	DonorID       string `json:"donorId"`
	DonationID    string `json:"donationId"`
	FacilityName  string `json:"facilityName"`
	ScheduledDate string `json:"scheduledDate"`
	ScheduledTime string `json:"scheduledTime"`
	Title         string `json:"title"`
	Body          string `json:"body"`
}
