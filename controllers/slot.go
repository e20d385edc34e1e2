package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
	"github.com/meinhoongagan/clinic-management/utils"
)

// GetDoctorSlots returns a doctor's slots, optionally filtered by day or status
func GetDoctorSlots(c *fiber.Ctx) error {
	doctorID := c.Params("id")
	var doctor models.Doctor
	if err := db.DB.First(&doctor, doctorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Doctor not found",
		})
	}

	query := db.DB.Where("doctor_id = ?", doctor.ID)
	if c.Query("day") != "" {
		query = query.Where("day = ?", c.QueryInt("day"))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var slots []models.Slot
	if err := query.Order("day, start_time").Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch slots",
			Error:   err.Error(),
		})
	}
	return c.JSON(slots)
}

// RegenerateDoctorSlots rebuilds the doctor's weekly slot grid, keeping booked
// and blocked slots intact
func RegenerateDoctorSlots(c *fiber.Ctx) error {
	doctorID := c.Params("id")
	var doctor models.Doctor
	if err := db.DB.Preload("AvailableDays").First(&doctor, doctorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Doctor not found",
		})
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return doctor.RegenerateSlots(tx)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to regenerate slots",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Slots regenerated successfully",
	})
}

// BlockSlot takes an available slot out of circulation
func BlockSlot(c *fiber.Ctx) error {
	return updateSlotStatus(c, models.SlotAvailable, models.SlotBlocked,
		"Only available slots can be blocked")
}

// ReopenSlot puts a blocked slot back into circulation
func ReopenSlot(c *fiber.Ctx) error {
	return updateSlotStatus(c, models.SlotBlocked, models.SlotAvailable,
		"Only blocked slots can be reopened")
}

// CancelSlot cancels a slot and any non-final appointments booked on it
func CancelSlot(c *fiber.Ctx) error {
	id := c.Params("id")
	var slot models.Slot
	if err := db.DB.First(&slot, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Slot not found",
		})
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return slot.Cancel(tx)
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(slot)
}

func updateSlotStatus(c *fiber.Ctx, from, to models.SlotStatus, msg string) error {
	id := c.Params("id")
	var slot models.Slot
	if err := db.DB.First(&slot, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Slot not found",
		})
	}
	if slot.Status != from {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}
	if err := db.DB.Model(&slot).Update("status", to).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update slot",
		})
	}
	return c.JSON(slot)
}
