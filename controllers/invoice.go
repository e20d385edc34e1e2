package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
	"github.com/meinhoongagan/clinic-management/utils"
)

// CreateInvoice builds the invoice for a completed appointment. Calling it
// again returns the existing invoice unchanged
func CreateInvoice(c *fiber.Ctx) error {
	appointmentID := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.First(&appointment, appointmentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}
	if appointment.State != models.StateCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only completed appointments can be invoiced",
		})
	}

	var invoice *models.Invoice
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		invoice, txErr = models.BuildInvoice(tx, &appointment)
		return txErr
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to build invoice",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetInvoice returns an invoice with its lines
func GetInvoice(c *fiber.Ctx) error {
	id := c.Params("id")
	var invoice models.Invoice
	if err := db.DB.Preload("Lines").First(&invoice, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invoice not found",
		})
	}
	return c.JSON(invoice)
}

// GetAllInvoices returns invoices, optionally filtered by patient or status
func GetAllInvoices(c *fiber.Ctx) error {
	query := db.DB.Preload("Lines")
	if c.Query("patient_id") != "" {
		query = query.Where("patient_id = ?", c.QueryInt("patient_id"))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []models.Invoice
	if err := query.Order("created_at desc").Find(&invoices).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch invoices",
			Error:   err.Error(),
		})
	}
	return c.JSON(invoices)
}

// MarkInvoicePaid settles a draft invoice
func MarkInvoicePaid(c *fiber.Ctx) error {
	return updateInvoiceStatus(c, models.InvoiceDraft, models.InvoicePaid,
		"Only draft invoices can be marked paid")
}

// VoidInvoice voids a draft invoice
func VoidInvoice(c *fiber.Ctx) error {
	return updateInvoiceStatus(c, models.InvoiceDraft, models.InvoiceVoided,
		"Only draft invoices can be voided")
}

func updateInvoiceStatus(c *fiber.Ctx, from, to models.InvoiceStatus, msg string) error {
	id := c.Params("id")
	var invoice models.Invoice
	if err := db.DB.First(&invoice, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Invoice not found",
		})
	}
	if invoice.Status != from {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}
	if err := db.DB.Model(&invoice).Update("status", to).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update invoice",
		})
	}
	return c.JSON(invoice)
}
