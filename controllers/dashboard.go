package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
	"github.com/meinhoongagan/clinic-management/utils"
)

// GetDashboardOverview returns headline counts for the admin dashboard
func GetDashboardOverview(c *fiber.Ctx) error {
	start, end := utils.RangeWindow(c.Query("range", "week"), time.Now())

	var totalAppointments int64
	db.DB.Model(&models.Appointment{}).
		Where("appointment_date BETWEEN ? AND ?", start, end).
		Count(&totalAppointments)

	stateCounts := map[string]int64{}
	rows, err := db.DB.Model(&models.Appointment{}).
		Select("state, COUNT(*) as count").
		Where("appointment_date BETWEEN ? AND ?", start, end).
		Group("state").Rows()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointment counts",
			Error:   err.Error(),
		})
	}
	defer rows.Close()
	for rows.Next() {
		var state string
		var count int64
		if err := rows.Scan(&state, &count); err != nil {
			continue
		}
		stateCounts[state] = count
	}

	var totalPatients int64
	db.DB.Model(&models.Patient{}).Where("active = ?", true).Count(&totalPatients)

	var newPatients int64
	db.DB.Model(&models.Patient{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&newPatients)

	var activeDoctors int64
	db.DB.Model(&models.Doctor{}).Where("active = ?", true).Count(&activeDoctors)

	var pendingLeaves int64
	db.DB.Model(&models.Holiday{}).Where("state = ?", models.HolidayDraft).Count(&pendingLeaves)

	return c.JSON(fiber.Map{
		"range":              c.Query("range", "week"),
		"total_appointments": totalAppointments,
		"appointments":       stateCounts,
		"total_patients":     totalPatients,
		"new_patients":       newPatients,
		"active_doctors":     activeDoctors,
		"pending_leaves":     pendingLeaves,
	})
}

// GetRevenueSummary returns invoiced revenue over the range, grouped by day
func GetRevenueSummary(c *fiber.Ctx) error {
	start, end := utils.RangeWindow(c.Query("range", "month"), time.Now())

	var totals struct {
		Invoiced float64
		Paid     float64
		Count    int64
	}
	db.DB.Model(&models.Invoice{}).
		Select("COALESCE(SUM(total), 0) as invoiced, COUNT(*) as count").
		Where("created_at BETWEEN ? AND ? AND status <> ?", start, end, models.InvoiceVoided).
		Scan(&totals)
	db.DB.Model(&models.Invoice{}).
		Select("COALESCE(SUM(total), 0)").
		Where("created_at BETWEEN ? AND ? AND status = ?", start, end, models.InvoicePaid).
		Scan(&totals.Paid)

	type dailyRevenue struct {
		Day     string  `json:"day"`
		Revenue float64 `json:"revenue"`
	}
	var daily []dailyRevenue
	db.DB.Model(&models.Invoice{}).
		Select("DATE(created_at) as day, COALESCE(SUM(total), 0) as revenue").
		Where("created_at BETWEEN ? AND ? AND status <> ?", start, end, models.InvoiceVoided).
		Group("DATE(created_at)").
		Order("day").
		Scan(&daily)

	return c.JSON(fiber.Map{
		"range":         c.Query("range", "month"),
		"total_revenue": totals.Invoiced,
		"paid_revenue":  totals.Paid,
		"invoice_count": totals.Count,
		"daily":         daily,
	})
}

// GetDoctorUtilization reports booked versus total slots per doctor
func GetDoctorUtilization(c *fiber.Ctx) error {
	var doctors []models.Doctor
	if err := db.DB.Where("active = ?", true).Find(&doctors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctors",
			Error:   err.Error(),
		})
	}

	type utilization struct {
		DoctorID    uint    `json:"doctor_id"`
		DoctorName  string  `json:"doctor_name"`
		TotalSlots  int64   `json:"total_slots"`
		BookedSlots int64   `json:"booked_slots"`
		Rate        float64 `json:"rate"`
	}

	report := make([]utilization, 0, len(doctors))
	for _, doctor := range doctors {
		var total, booked int64
		db.DB.Model(&models.Slot{}).Where("doctor_id = ?", doctor.ID).Count(&total)
		db.DB.Model(&models.Slot{}).
			Where("doctor_id = ? AND status = ?", doctor.ID, models.SlotBooked).
			Count(&booked)

		u := utilization{
			DoctorID:    doctor.ID,
			DoctorName:  doctor.Name,
			TotalSlots:  total,
			BookedSlots: booked,
		}
		if total > 0 {
			u.Rate = float64(booked) / float64(total)
		}
		report = append(report, u)
	}
	return c.JSON(report)
}

// GetUpcomingLeaves lists approved leaves that have not ended yet
func GetUpcomingLeaves(c *fiber.Ctx) error {
	today := utils.DateOf(time.Now())
	var leaves []models.Holiday
	if err := db.DB.Preload("Doctor").
		Where("state = ? AND to_date >= ?", models.HolidayApproved, today).
		Order("from_date").Find(&leaves).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch leaves",
			Error:   err.Error(),
		})
	}
	return c.JSON(leaves)
}

// GetServicePopularity ranks services by appointment volume over the range
func GetServicePopularity(c *fiber.Ctx) error {
	start, end := utils.RangeWindow(c.Query("range", "month"), time.Now())

	type popularity struct {
		ServiceID   uint   `json:"service_id"`
		ServiceName string `json:"service_name"`
		Count       int64  `json:"count"`
	}
	var report []popularity
	err := db.DB.Model(&models.Appointment{}).
		Select("services.id as service_id, services.name as service_name, COUNT(appointments.id) as count").
		Joins("JOIN services ON services.id = appointments.service_id").
		Where("appointments.appointment_date BETWEEN ? AND ?", start, end).
		Group("services.id, services.name").
		Order("count desc").
		Scan(&report).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch service popularity",
			Error:   err.Error(),
		})
	}
	return c.JSON(report)
}
