package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/clinic-management/controllers"
	"github.com/meinhoongagan/clinic-management/middleware"
)

// SetupDoctorRoutes configures doctor and slot related routes
func SetupDoctorRoutes(app *fiber.App) {
	doctor := app.Group("/doctors")
	doctor.Get("/", controllers.GetAllDoctors)
	doctor.Get("/:id", controllers.GetDoctor)
	doctor.Post("/", middleware.Protected(), middleware.RequirePermission("doctors", "create"), controllers.CreateDoctor)
	doctor.Patch("/:id", middleware.Protected(), middleware.RequirePermission("doctors", "update"), controllers.UpdateDoctor)
	doctor.Delete("/:id", middleware.Protected(), middleware.RequirePermission("doctors", "delete"), controllers.DeleteDoctor)
	doctor.Post("/:id/user", middleware.Protected(), middleware.RequireRole("admin"), controllers.CreateDoctorUser)

	// Slot management
	doctor.Get("/:id/slots", middleware.Protected(), middleware.RequirePermission("slots", "read"), controllers.GetDoctorSlots)
	doctor.Post("/:id/slots/regenerate", middleware.Protected(), middleware.RequirePermission("slots", "create"), controllers.RegenerateDoctorSlots)

	slot := app.Group("/slots", middleware.Protected())
	slot.Post("/:id/block", middleware.RequirePermission("slots", "update"), controllers.BlockSlot)
	slot.Post("/:id/reopen", middleware.RequirePermission("slots", "update"), controllers.ReopenSlot)
	slot.Post("/:id/cancel", middleware.RequirePermission("slots", "update"), controllers.CancelSlot)
}
