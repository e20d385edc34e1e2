package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/clinic-management/controllers"
	"github.com/meinhoongagan/clinic-management/middleware"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/appointments", middleware.Protected())
	appointment.Get("/", middleware.RequirePermission("appointments", "read"), controllers.GetAllAppointments)
	appointment.Get("/:id", middleware.RequirePermission("appointments", "read"), controllers.GetAppointment)
	appointment.Post("/", middleware.RequirePermission("appointments", "create"), controllers.CreateAppointment)
	appointment.Patch("/:id", middleware.RequirePermission("appointments", "update"), controllers.UpdateAppointment)

	// State transitions
	appointment.Post("/:id/confirm", middleware.RequirePermission("appointments", "update"), controllers.ConfirmAppointment)
	appointment.Post("/:id/check-in", middleware.RequirePermission("appointments", "update"), controllers.CheckInAppointment)
	appointment.Post("/:id/start", middleware.RequirePermission("appointments", "update"), controllers.StartConsultation)
	appointment.Post("/:id/complete", middleware.RequirePermission("appointments", "update"), controllers.CompleteAppointment)
	appointment.Post("/:id/cancel", middleware.RequirePermission("appointments", "update"), controllers.CancelAppointment)
	appointment.Post("/:id/no-show", middleware.RequirePermission("appointments", "update"), controllers.MarkNoShow)
	appointment.Post("/:id/reschedule", middleware.RequirePermission("appointments", "update"), controllers.RescheduleAppointment)

	// Billing
	appointment.Post("/:id/invoice", middleware.RequirePermission("invoices", "create"), controllers.CreateInvoice)
}
