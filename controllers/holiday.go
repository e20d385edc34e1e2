package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
	"github.com/meinhoongagan/clinic-management/utils"
)

// GetAllHolidays returns leave requests, optionally filtered by doctor or state
func GetAllHolidays(c *fiber.Ctx) error {
	query := db.DB.Preload("Doctor")
	if c.Query("doctor_id") != "" {
		query = query.Where("doctor_id = ?", c.QueryInt("doctor_id"))
	}
	if state := c.Query("state"); state != "" {
		query = query.Where("state = ?", state)
	}

	var holidays []models.Holiday
	if err := query.Order("from_date desc").Find(&holidays).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch leave requests",
			Error:   err.Error(),
		})
	}
	return c.JSON(holidays)
}

// CreateHoliday files a draft leave request for a doctor
func CreateHoliday(c *fiber.Ctx) error {
	var input struct {
		DoctorID  uint   `json:"doctor_id"`
		LeaveType string `json:"leave_type"`
		FromDate  string `json:"from_date"`
		ToDate    string `json:"to_date"`
		Reason    string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	fromDate, err := time.Parse("2006-01-02", input.FromDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid from_date, expected YYYY-MM-DD",
		})
	}
	toDate, err := time.Parse("2006-01-02", input.ToDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid to_date, expected YYYY-MM-DD",
		})
	}

	var doctor models.Doctor
	if err := db.DB.First(&doctor, input.DoctorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Doctor not found",
		})
	}

	holiday := models.Holiday{
		DoctorID:  doctor.ID,
		LeaveType: input.LeaveType,
		FromDate:  fromDate,
		ToDate:    toDate,
		Reason:    input.Reason,
		State:     models.HolidayDraft,
	}
	if err := db.DB.Create(&holiday).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to create leave request",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(holiday)
}

// ApproveHoliday approves the leave, blocks the doctor's slots and cancels
// booked appointments in the range
func ApproveHoliday(c *fiber.Ctx) error {
	return withHoliday(c, func(tx *gorm.DB, holiday *models.Holiday) error {
		return holiday.Approve(tx)
	})
}

// CancelHoliday cancels the leave and reopens the slots it had blocked
func CancelHoliday(c *fiber.Ctx) error {
	return withHoliday(c, func(tx *gorm.DB, holiday *models.Holiday) error {
		return holiday.CancelLeave(tx)
	})
}

// DeleteHoliday removes a draft leave request
func DeleteHoliday(c *fiber.Ctx) error {
	id := c.Params("id")
	var holiday models.Holiday
	if err := db.DB.First(&holiday, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Leave request not found",
		})
	}
	if holiday.State != models.HolidayDraft {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only draft leave requests can be deleted",
		})
	}
	if err := db.DB.Delete(&holiday).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete leave request",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Leave request deleted successfully",
	})
}

func withHoliday(c *fiber.Ctx, fn func(*gorm.DB, *models.Holiday) error) error {
	id := c.Params("id")
	var holiday models.Holiday
	if err := db.DB.First(&holiday, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Leave request not found",
		})
	}
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return fn(tx, &holiday)
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(holiday)
}
