package booking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
	"github.com/meinhoongagan/clinic-management/redis"
	"github.com/meinhoongagan/clinic-management/utils"
)

const slotCacheTTL = 2 * time.Minute

// GetBookingDoctors feeds the doctor dropdown, optionally narrowed to one
// service. Results are cached briefly in Redis when it is available
func GetBookingDoctors(c *fiber.Ctx) error {
	serviceID := c.Query("service_id", "0")
	cacheKey := fmt.Sprintf("booking:doctors:%s", serviceID)

	if cached, ok := cacheGet(cacheKey); ok {
		c.Set("Content-Type", "application/json")
		return c.SendString(cached)
	}

	query := db.DB.Model(&models.Doctor{}).
		Select("doctors.id, doctors.name, doctors.qualification, doctors.consultation_fee").
		Where("doctors.active = ?", true)
	if serviceID != "0" && serviceID != "" {
		query = query.Joins("JOIN doctor_specializations ON doctor_specializations.doctor_id = doctors.id").
			Where("doctor_specializations.service_id = ?", serviceID)
	}

	type doctorOption struct {
		ID              uint    `json:"id"`
		Name            string  `json:"name"`
		Qualification   string  `json:"qualification"`
		ConsultationFee float64 `json:"consultation_fee"`
	}
	var options []doctorOption
	if err := query.Order("doctors.name").Scan(&options).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch doctors",
		})
	}

	cacheSet(cacheKey, options)
	return c.JSON(options)
}

// GetBookingSlots feeds the slot dropdown for a doctor and date. Only open
// slots on that weekday are returned, and none at all when the doctor is on
// approved leave
func GetBookingSlots(c *fiber.Ctx) error {
	doctorID := c.QueryInt("doctor_id")
	dateStr := c.Query("date")
	if doctorID == 0 || dateStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "doctor_id and date are required",
		})
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	var doctor models.Doctor
	if err := db.DB.Preload("AvailableDays").First(&doctor, doctorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Doctor not found",
		})
	}

	day := models.DayOf(date)
	if !doctor.WorksOn(day) {
		return c.JSON(fiber.Map{
			"slots":   []models.Slot{},
			"message": fmt.Sprintf("Doctor does not consult on %s", day),
		})
	}

	onLeave, err := doctor.OnApprovedLeave(db.DB, date)
	if err == nil && onLeave {
		return c.JSON(fiber.Map{
			"slots":   []models.Slot{},
			"message": "Doctor is on leave on the selected date",
		})
	}

	cacheKey := fmt.Sprintf("booking:slots:%d:%s", doctorID, dateStr)
	if cached, ok := cacheGet(cacheKey); ok {
		c.Set("Content-Type", "application/json")
		return c.SendString(cached)
	}

	var slots []models.Slot
	if err := db.DB.Where("doctor_id = ? AND day = ? AND status = ?",
		doctor.ID, day, models.SlotAvailable).
		Order("start_time").Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch slots",
		})
	}

	payload := fiber.Map{"slots": slots}
	cacheSet(cacheKey, payload)
	return c.JSON(payload)
}

// CreateBooking is the public booking intake. Patients are deduplicated by
// phone and the slot is re-checked inside the transaction, so two visitors
// racing for the same slot cannot both win
func CreateBooking(c *fiber.Ctx) error {
	var input struct {
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		Email     string `json:"email"`
		Gender    string `json:"gender"`
		Age       int    `json:"age"`
		Address   string `json:"address"`
		DoctorID  uint   `json:"doctor_id"`
		ServiceID *uint  `json:"service_id"`
		SlotID    uint   `json:"slot_id"`
		Date      string `json:"date"`
		Symptom   string `json:"symptom"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if input.Name == "" || input.Phone == "" || input.DoctorID == 0 || input.SlotID == 0 || input.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name, phone, doctor_id, slot_id and date are required",
		})
	}

	settings, err := models.GetSettings(db.DB)
	if err == nil && !settings.EnableOnlineBooking {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Online booking is currently disabled",
		})
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	var appointment *models.Appointment
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		patient, err := models.FindOrCreateByPhone(tx, &models.Patient{
			Name:    input.Name,
			Phone:   input.Phone,
			Email:   input.Email,
			Gender:  input.Gender,
			Age:     input.Age,
			Address: input.Address,
		})
		if err != nil {
			return err
		}

		var slot models.Slot
		if err := tx.First(&slot, input.SlotID).Error; err != nil {
			return fmt.Errorf("slot not found")
		}
		if slot.DoctorID != input.DoctorID {
			return fmt.Errorf("slot belongs to a different doctor")
		}
		if slot.Day != models.DayOf(date) {
			return fmt.Errorf("slot does not fall on the selected date")
		}
		if slot.Status != models.SlotAvailable {
			return fmt.Errorf("the selected slot has just been taken, please pick another")
		}

		appointment = &models.Appointment{
			PatientID:       patient.ID,
			DoctorID:        input.DoctorID,
			ServiceID:       input.ServiceID,
			SlotID:          slot.ID,
			AppointmentDate: date,
			Symptom:         input.Symptom,
			State:           models.StateDraft,
		}
		if err := tx.Create(appointment).Error; err != nil {
			return err
		}
		return appointment.Confirm(tx)
	})
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	cacheInvalidate(fmt.Sprintf("booking:slots:%d:%s", input.DoctorID, input.Date))
	sendBookingConfirmation(appointment, input.Email, input.Name)

	message := "Your appointment has been booked"
	if settings != nil && settings.BookingConfirmationMessage != "" {
		message = settings.BookingConfirmationMessage
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   message,
		"reference": appointment.Reference,
	})
}

// GetBookingStatus lets a visitor look up their appointment by reference
func GetBookingStatus(c *fiber.Ctx) error {
	reference := c.Params("reference")
	var appointment models.Appointment
	if err := db.DB.Preload("Doctor").Preload("Slot").
		Where("reference = ?", reference).First(&appointment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No appointment found for that reference",
		})
	}
	return c.JSON(fiber.Map{
		"reference":        appointment.Reference,
		"state":            appointment.State,
		"appointment_date": appointment.AppointmentDate.Format("2006-01-02"),
		"doctor":           appointment.Doctor.Name,
		"slot":             appointment.Slot.Label(),
	})
}

func sendBookingConfirmation(appointment *models.Appointment, email, name string) {
	if email == "" {
		return
	}
	var doctor models.Doctor
	_ = db.DB.First(&doctor, appointment.DoctorID).Error
	var slot models.Slot
	_ = db.DB.First(&slot, appointment.SlotID).Error

	subject := fmt.Sprintf("Appointment Confirmed - %s", appointment.Reference)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment has been confirmed.</p>
		<p><strong>Reference:</strong> %s</p>
		<p><strong>Doctor:</strong> %s</p>
		<p><strong>Date:</strong> %s</p>
		<p><strong>Time:</strong> %s</p>
	`, name, appointment.Reference, doctor.Name,
		appointment.AppointmentDate.Format("2006-01-02"), slot.Label())

	utils.SendEmailBestEffort(email, subject, body)
}

func cacheGet(key string) (string, bool) {
	if redis.Client == nil {
		return "", false
	}
	val, err := redis.Client.Get(redis.Ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func cacheSet(key string, value interface{}) {
	if redis.Client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	redis.Client.Set(redis.Ctx, key, data, slotCacheTTL)
}

func cacheInvalidate(key string) {
	if redis.Client == nil {
		return
	}
	redis.Client.Del(redis.Ctx, key)
}
