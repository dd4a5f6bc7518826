package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bloodlink/config"
	"bloodlink/models"
	"bloodlink/services/notification"

	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// How far ahead of the appointment the reminder fires.
const reminderLeadTime = 24 * time.Hour

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	}
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(notifSvc notification.NotificationService) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(notifSvc))

	go func() {
		log.Println("[ReminderWorker] Starting async worker...")
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] Attempt %d/%d failed to start worker: %v", attempt, maxAttempts, err)
				if attempt == maxAttempts {
					log.Fatal("[ReminderWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] Invalid payload: %v", err)
			return err
		}

		data := map[string]string{
			"donationId":    p.DonationID,
			"scheduledDate": p.ScheduledDate,
			"scheduledTime": p.ScheduledTime,
		}
		if err := notifSvc.SendDonorPush(ctx, p.DonorID, p.Title, p.Body, data); err != nil {
			log.Printf("[ReminderHandler] Failed to send reminder push: %v", err)
			return err
		}
		return nil
	}
}

// ReminderScheduler enqueues appointment reminders.
type ReminderScheduler struct {
	client *asynq.Client
}

// NewReminderScheduler connects the enqueue-side asynq client.
func NewReminderScheduler() *ReminderScheduler {
	return &ReminderScheduler{client: asynq.NewClient(redisOpts())}
}

// ScheduleDonationReminder enqueues a reminder 24 hours before the
// appointment. Appointments closer than the lead time get no reminder.
func (r *ReminderScheduler) ScheduleDonationReminder(donation *models.ScheduledDonation, facilityName string) error {
	when, err := time.ParseInLocation("2006-01-02 15:04",
		donation.ScheduledDate+" "+donation.ScheduledTime, time.Local)
	if err != nil {
		return fmt.Errorf("unparseable appointment time: %w", err)
	}
	fireAt := when.Add(-reminderLeadTime)
	if time.Until(fireAt) <= 0 {
		return nil
	}

	payload := models.ReminderPayload{
		DonorID:       donation.DonorID,
		DonationID:    donation.ID,
		FacilityName:  facilityName,
		ScheduledDate: donation.ScheduledDate,
		ScheduledTime: donation.ScheduledTime,
		Title:         "Donation reminder",
		Body: fmt.Sprintf("Your donation at %s is tomorrow at %s. Remember to hydrate and eat well.",
			facilityName, donation.ScheduledTime),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeReminderSend, data)
	if _, err := r.client.Enqueue(task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}
