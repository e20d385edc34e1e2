package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/clinic-management/controllers"
	"github.com/meinhoongagan/clinic-management/middleware"
)

// SetupClinicalRoutes configures prescription, lab test and invoice routes
func SetupClinicalRoutes(app *fiber.App) {
	prescription := app.Group("/prescriptions", middleware.Protected())
	prescription.Post("/", middleware.RequirePermission("prescriptions", "create"), controllers.CreatePrescription)
	prescription.Get("/:id", middleware.RequirePermission("prescriptions", "read"), controllers.GetPrescription)

	labTest := app.Group("/lab-tests", middleware.Protected())
	labTest.Post("/", middleware.RequirePermission("prescriptions", "create"), controllers.RequestLabTest)
	labTest.Post("/:id/complete", middleware.RequirePermission("prescriptions", "update"), controllers.CompleteLabTest)
	labTest.Post("/:id/cancel", middleware.RequirePermission("prescriptions", "update"), controllers.CancelLabTest)

	invoice := app.Group("/invoices", middleware.Protected())
	invoice.Get("/", middleware.RequirePermission("invoices", "read"), controllers.GetAllInvoices)
	invoice.Get("/:id", middleware.RequirePermission("invoices", "read"), controllers.GetInvoice)
	invoice.Post("/:id/pay", middleware.RequirePermission("invoices", "update"), controllers.MarkInvoicePaid)
	invoice.Post("/:id/void", middleware.RequirePermission("invoices", "update"), controllers.VoidInvoice)
}
