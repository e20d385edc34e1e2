package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
	"github.com/meinhoongagan/clinic-management/utils"
)

// GetAllAppointments returns appointments with optional filters
func GetAllAppointments(c *fiber.Ctx) error {
	var appointments []models.Appointment
	query := db.DB.Preload("Patient").Preload("Doctor").Preload("Slot").Preload("Service")

	if c.Query("doctor_id") != "" {
		query = query.Where("doctor_id = ?", c.QueryInt("doctor_id"))
	}
	if c.Query("patient_id") != "" {
		query = query.Where("patient_id = ?", c.QueryInt("patient_id"))
	}
	if state := c.Query("state"); state != "" {
		query = query.Where("state = ?", state)
	}
	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid date, expected YYYY-MM-DD",
			})
		}
		query = query.Where("appointment_date = ?", parsed)
	}

	if err := query.Order("appointment_date desc, id desc").Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

// GetAppointment returns an appointment by ID
func GetAppointment(c *fiber.Ctx) error {
	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.Preload("Patient").Preload("Doctor").Preload("Slot").
		Preload("Service").Preload("Prescriptions.Medications").Preload("LabTests").
		First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointment)
}

// CreateAppointment creates a draft appointment
func CreateAppointment(c *fiber.Ctx) error {
	appointment := new(models.Appointment)
	if err := c.BodyParser(appointment); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if appointment.PatientID == 0 || appointment.DoctorID == 0 || appointment.SlotID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "patient_id, doctor_id and slot_id are required",
		})
	}
	if err := db.DB.Create(appointment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create appointment",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// UpdateAppointment updates editable fields of an appointment
func UpdateAppointment(c *fiber.Ctx) error {
	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}

	var input struct {
		Symptom           *string  `json:"symptom"`
		NextVisitDays     *int     `json:"next_visit_days"`
		ConsultingFee     *float64 `json:"consulting_fee"`
		IsLabTestRequired *bool    `json:"is_lab_test_required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	updates := map[string]interface{}{}
	if input.Symptom != nil {
		updates["symptom"] = *input.Symptom
	}
	if input.NextVisitDays != nil {
		updates["next_visit_days"] = *input.NextVisitDays
	}
	if input.ConsultingFee != nil {
		updates["consulting_fee"] = *input.ConsultingFee
	}
	if input.IsLabTestRequired != nil {
		updates["is_lab_test_required"] = *input.IsLabTestRequired
	}
	if len(updates) > 0 {
		if err := db.DB.Model(&appointment).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update appointment",
			})
		}
	}
	return c.JSON(appointment)
}

// ConfirmAppointment books the slot and confirms the appointment
func ConfirmAppointment(c *fiber.Ctx) error {
	return withAppointment(c, func(tx *gorm.DB, appointment *models.Appointment) error {
		return appointment.Confirm(tx)
	})
}

// CheckInAppointment marks the patient as arrived
func CheckInAppointment(c *fiber.Ctx) error {
	return withAppointment(c, func(tx *gorm.DB, appointment *models.Appointment) error {
		return appointment.CheckIn(tx)
	})
}

// StartConsultation moves the appointment into consultation
func StartConsultation(c *fiber.Ctx) error {
	return withAppointment(c, func(tx *gorm.DB, appointment *models.Appointment) error {
		return appointment.StartConsultation(tx)
	})
}

// CompleteAppointment completes the consultation. Follow-up creation and the
// completion email are best effort and never fail the request.
func CompleteAppointment(c *fiber.Ctx) error {
	return withAppointment(c, func(tx *gorm.DB, appointment *models.Appointment) error {
		if err := appointment.Complete(tx); err != nil {
			return err
		}
		sendCompletionEmail(tx, appointment)
		return nil
	})
}

// CancelAppointment cancels the appointment and frees its slot
func CancelAppointment(c *fiber.Ctx) error {
	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&input)
	return withAppointment(c, func(tx *gorm.DB, appointment *models.Appointment) error {
		return appointment.Cancel(tx, input.Reason)
	})
}

// MarkNoShow flags the patient as a no-show
func MarkNoShow(c *fiber.Ctx) error {
	return withAppointment(c, func(tx *gorm.DB, appointment *models.Appointment) error {
		return appointment.MarkNoShow(tx)
	})
}

// RescheduleAppointment moves the appointment to a new date and slot
func RescheduleAppointment(c *fiber.Ctx) error {
	var input struct {
		NewDate   string `json:"new_date"`
		NewSlotID uint   `json:"new_slot_id"`
		Reason    string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	newDate, err := time.Parse("2006-01-02", input.NewDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid new_date, expected YYYY-MM-DD",
		})
	}
	if input.NewSlotID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "new_slot_id is required",
		})
	}

	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}

	var replacement *models.Appointment
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		replacement, txErr = appointment.Reschedule(tx, newDate, input.NewSlotID, input.Reason)
		return txErr
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message":     "Appointment rescheduled successfully",
		"appointment": replacement,
		"original":    appointment,
	})
}

// withAppointment loads the appointment, runs the transition inside a
// transaction and renders the result.
func withAppointment(c *fiber.Ctx, fn func(*gorm.DB, *models.Appointment) error) error {
	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return fn(tx, &appointment)
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(appointment)
}

func sendCompletionEmail(tx *gorm.DB, appointment *models.Appointment) {
	var patient models.Patient
	if err := tx.First(&patient, appointment.PatientID).Error; err != nil || patient.Email == "" {
		return
	}
	var doctor models.Doctor
	_ = tx.First(&doctor, appointment.DoctorID).Error

	subject := fmt.Sprintf("Visit Summary - %s", appointment.Reference)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Thank you for visiting the clinic. Your consultation with %s is complete.</p>
		<p><strong>Reference:</strong> %s</p>
		<p><strong>Date:</strong> %s</p>
	`, patient.Name, doctor.Name, appointment.Reference,
		appointment.AppointmentDate.Format("2006-01-02"))

	if next := appointment.NextVisitDate(); !next.IsZero() {
		body += fmt.Sprintf("<p>Your next visit is planned around %s.</p>", next.Format("2006-01-02"))
	}

	utils.SendEmailBestEffort(patient.Email, subject, body)
}
