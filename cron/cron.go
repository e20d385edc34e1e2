package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
	"github.com/meinhoongagan/clinic-management/utils"
)

// StartCronJobs initializes and starts the scheduled housekeeping jobs
func StartCronJobs() {
	fmt.Println("Starting cron job scheduler...")
	c := cron.New()

	// Expire past slots and flag no-shows every 15 minutes
	if _, err := c.AddFunc("*/15 * * * *", expirePastSlots); err != nil {
		log.Fatalf("Failed to add slot expiry job: %v", err)
	}
	// Release slots blocked by leaves that have ended, shortly after midnight
	if _, err := c.AddFunc("5 0 * * *", unblockExpiredLeaves); err != nil {
		log.Fatalf("Failed to add leave unblock job: %v", err)
	}
	// Next-day appointment reminders every evening
	if _, err := c.AddFunc("0 18 * * *", sendAppointmentReminders); err != nil {
		log.Fatalf("Failed to add reminder job: %v", err)
	}

	c.Start()
	log.Println("Cron job scheduler started")
}

// expirePastSlots marks today's finished slots as expired and no-shows the
// confirmed appointments still sitting on them. Safe to run repeatedly.
func expirePastSlots() {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return models.ExpirePastSlots(tx, time.Now())
	})
	if err != nil {
		log.Printf("Slot expiry sweep failed: %v", err)
	}
}

// unblockExpiredLeaves reopens slots blocked by leaves whose last day has
// passed.
func unblockExpiredLeaves() {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return models.UnblockExpiredLeaves(tx, utils.DateOf(time.Now()))
	})
	if err != nil {
		log.Printf("Leave unblock sweep failed: %v", err)
	}
}

// sendAppointmentReminders emails patients whose confirmed appointment falls
// tomorrow
func sendAppointmentReminders() {
	tomorrow := utils.DateOf(time.Now().AddDate(0, 0, 1))

	var appointments []models.Appointment
	err := db.DB.Preload("Patient").Preload("Doctor").Preload("Slot").
		Where("state = ? AND appointment_date = ?", models.StateConfirmed, tomorrow).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	fmt.Printf("Found %d appointments for reminders\n", len(appointments))

	for _, appointment := range appointments {
		if appointment.Patient.Email == "" {
			continue
		}
		subject := fmt.Sprintf("Reminder: Appointment Tomorrow - %s", appointment.Reference)
		body := fmt.Sprintf(`
			<p>Dear %s,</p>
			<p>This is a reminder for your appointment tomorrow.</p>
			<ul>
				<li><strong>Doctor:</strong> %s</li>
				<li><strong>Date:</strong> %s</li>
				<li><strong>Time:</strong> %s</li>
				<li><strong>Reference:</strong> %s</li>
			</ul>
			<p>Please arrive on time. If you need to reschedule or cancel, contact us as soon as possible.</p>
		`, appointment.Patient.Name, appointment.Doctor.Name,
			appointment.AppointmentDate.Format("2006-01-02"),
			appointment.Slot.Label(), appointment.Reference)

		utils.SendEmailBestEffort(appointment.Patient.Email, subject, body)
		log.Printf("Queued reminder for appointment %s to %s", appointment.Reference, appointment.Patient.Email)
	}
}
