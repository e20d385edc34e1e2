package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
)

// GetAllPatients returns patients, optionally filtered by phone or name
func GetAllPatients(c *fiber.Ctx) error {
	var patients []models.Patient
	query := db.DB
	if phone := c.Query("phone"); phone != "" {
		query = query.Where("phone = ?", phone)
	}
	if name := c.Query("name"); name != "" {
		query = query.Where("name ILIKE ?", "%"+name+"%")
	}
	if err := query.Order("name").Find(&patients).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch patients",
		})
	}
	return c.JSON(patients)
}

// GetPatient returns a patient with their appointment history
func GetPatient(c *fiber.Ctx) error {
	id := c.Params("id")
	var patient models.Patient
	if err := db.DB.Preload("Appointments", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("appointment_date desc")
	}).First(&patient, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Patient not found",
		})
	}
	return c.JSON(patient)
}

// CreatePatient creates a patient record
func CreatePatient(c *fiber.Ctx) error {
	patient := new(models.Patient)
	if err := c.BodyParser(patient); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if patient.Name == "" || patient.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and phone are required",
		})
	}
	patient.Active = true
	if err := db.DB.Create(patient).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to create patient: " + err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(patient)
}

// UpdatePatient updates a patient record
func UpdatePatient(c *fiber.Ctx) error {
	id := c.Params("id")
	var patient models.Patient
	if err := db.DB.First(&patient, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Patient not found",
		})
	}
	if err := c.BodyParser(&patient); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if err := db.DB.Save(&patient).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update patient",
		})
	}
	return c.JSON(patient)
}

// DeletePatient archives a patient record
func DeletePatient(c *fiber.Ctx) error {
	id := c.Params("id")
	var patient models.Patient
	if err := db.DB.First(&patient, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Patient not found",
		})
	}
	if err := db.DB.Model(&patient).Update("active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to archive patient",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
