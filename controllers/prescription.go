package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
	"github.com/meinhoongagan/clinic-management/utils"
)

// CreatePrescription writes a prescription with its medication lines on an
// appointment that is in consultation or already completed
func CreatePrescription(c *fiber.Ctx) error {
	var input struct {
		AppointmentID uint   `json:"appointment_id"`
		Notes         string `json:"notes"`
		Medications   []struct {
			MedicineName string  `json:"medicine_name"`
			Dosage       string  `json:"dosage"`
			Frequency    string  `json:"frequency"`
			Quantity     int     `json:"quantity"`
			UnitPrice    float64 `json:"unit_price"`
		} `json:"medications"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, input.AppointmentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}
	if appointment.State != models.StateInConsultation && appointment.State != models.StateCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Prescriptions can only be written during or after consultation",
		})
	}
	if len(input.Medications) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one medication line is required",
		})
	}

	prescription := models.Prescription{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		Notes:         input.Notes,
	}
	for _, m := range input.Medications {
		if m.MedicineName == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "medicine_name is required on every line",
			})
		}
		qty := m.Quantity
		if qty <= 0 {
			qty = 1
		}
		prescription.Medications = append(prescription.Medications, models.MedicationLine{
			MedicineName: m.MedicineName,
			Dosage:       m.Dosage,
			Frequency:    m.Frequency,
			Quantity:     qty,
			UnitPrice:    m.UnitPrice,
		})
	}

	if err := db.DB.Create(&prescription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create prescription",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(prescription)
}

// GetPrescription returns a prescription with its lines
func GetPrescription(c *fiber.Ctx) error {
	id := c.Params("id")
	var prescription models.Prescription
	if err := db.DB.Preload("Medications").Preload("Appointment").
		First(&prescription, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Prescription not found",
		})
	}
	return c.JSON(fiber.Map{
		"prescription": prescription,
		"total":        prescription.Total(),
	})
}

// GetPatientPrescriptions returns a patient's prescriptions, newest first
func GetPatientPrescriptions(c *fiber.Ctx) error {
	patientID := c.Params("id")
	var prescriptions []models.Prescription
	if err := db.DB.Preload("Medications").
		Where("patient_id = ?", patientID).
		Order("created_at desc").Find(&prescriptions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch prescriptions",
			Error:   err.Error(),
		})
	}
	return c.JSON(prescriptions)
}

// RequestLabTest orders a lab test on an appointment
func RequestLabTest(c *fiber.Ctx) error {
	var input struct {
		AppointmentID uint    `json:"appointment_id"`
		TestName      string  `json:"test_name"`
		Notes         string  `json:"notes"`
		Cost          float64 `json:"cost"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if input.TestName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "test_name is required",
		})
	}

	var appointment models.Appointment
	if err := db.DB.First(&appointment, input.AppointmentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}

	labTest := models.LabTest{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		DoctorID:      appointment.DoctorID,
		TestName:      input.TestName,
		Notes:         input.Notes,
		Cost:          input.Cost,
		State:         models.LabTestRequested,
	}
	if err := db.DB.Create(&labTest).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to request lab test",
			Error:   err.Error(),
		})
	}

	if !appointment.IsLabTestRequired {
		db.DB.Model(&appointment).Update("is_lab_test_required", true)
	}
	return c.Status(fiber.StatusCreated).JSON(labTest)
}

// CompleteLabTest records the result of a requested lab test
func CompleteLabTest(c *fiber.Ctx) error {
	var input struct {
		Result string `json:"result"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	id := c.Params("id")
	var labTest models.LabTest
	if err := db.DB.First(&labTest, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lab test not found",
		})
	}
	if labTest.State != models.LabTestRequested {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only requested lab tests can be completed",
		})
	}
	if err := labTest.CompleteTest(db.DB, input.Result); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to complete lab test",
		})
	}
	return c.JSON(labTest)
}

// CancelLabTest cancels a requested lab test
func CancelLabTest(c *fiber.Ctx) error {
	id := c.Params("id")
	var labTest models.LabTest
	if err := db.DB.First(&labTest, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lab test not found",
		})
	}
	if labTest.State != models.LabTestRequested {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only requested lab tests can be cancelled",
		})
	}
	if err := db.DB.Model(&labTest).Update("state", models.LabTestCancelled).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to cancel lab test",
		})
	}
	return c.JSON(labTest)
}
