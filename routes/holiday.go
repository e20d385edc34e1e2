package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/clinic-management/controllers"
	"github.com/meinhoongagan/clinic-management/middleware"
)

// SetupHolidayRoutes configures doctor leave related routes
func SetupHolidayRoutes(app *fiber.App) {
	holiday := app.Group("/holidays", middleware.Protected())
	holiday.Get("/", middleware.RequirePermission("holidays", "read"), controllers.GetAllHolidays)
	holiday.Post("/", middleware.RequirePermission("holidays", "create"), controllers.CreateHoliday)
	holiday.Post("/:id/approve", middleware.RequirePermission("holidays", "update"), controllers.ApproveHoliday)
	holiday.Post("/:id/cancel", middleware.RequirePermission("holidays", "update"), controllers.CancelHoliday)
	holiday.Delete("/:id", middleware.RequirePermission("holidays", "delete"), controllers.DeleteHoliday)
}
