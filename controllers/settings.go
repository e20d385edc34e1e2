package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
	"github.com/meinhoongagan/clinic-management/utils"
)

// GetSettings returns the website settings, creating defaults on first call
func GetSettings(c *fiber.Ctx) error {
	settings, err := models.GetSettings(db.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load settings",
			Error:   err.Error(),
		})
	}
	return c.JSON(settings)
}

// UpdateSettings updates the website settings singleton
func UpdateSettings(c *fiber.Ctx) error {
	settings, err := models.GetSettings(db.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to load settings",
			Error:   err.Error(),
		})
	}

	var input models.WebsiteSettings
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	input.ID = settings.ID
	input.CreatedAt = settings.CreatedAt
	if err := db.DB.Save(&input).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update settings",
			Error:   err.Error(),
		})
	}
	return c.JSON(input)
}
