package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/meinhoongagan/clinic-management/db"
	"github.com/meinhoongagan/clinic-management/models"
)

// GetAllDoctors returns all doctors with their specializations
func GetAllDoctors(c *fiber.Ctx) error {
	var doctors []models.Doctor
	query := db.DB.Preload("Specializations").Preload("AvailableDays")
	if c.Query("active") != "" {
		query = query.Where("active = ?", c.QueryBool("active"))
	}
	if c.Query("service_id") != "" {
		query = query.Joins("JOIN doctor_specializations ON doctor_specializations.doctor_id = doctors.id").
			Where("doctor_specializations.service_id = ?", c.QueryInt("service_id"))
	}
	if err := query.Order("name").Find(&doctors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch doctors",
		})
	}
	return c.JSON(doctors)
}

// GetDoctor returns a doctor by ID
func GetDoctor(c *fiber.Ctx) error {
	id := c.Params("id")
	var doctor models.Doctor
	if err := db.DB.Preload("Specializations").Preload("AvailableDays").
		First(&doctor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Doctor not found",
		})
	}
	return c.JSON(doctor)
}

// CreateDoctor creates a doctor and generates the initial slot inventory
func CreateDoctor(c *fiber.Ctx) error {
	doctor := new(models.Doctor)
	if err := c.BodyParser(doctor); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if doctor.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Doctor name is required",
		})
	}
	doctor.Active = true

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doctor).Error; err != nil {
			return err
		}
		return doctor.RegenerateSlots(tx)
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(doctor)
}

// UpdateDoctor applies the provided fields to a doctor. Omitted fields keep
// their value, including the available days array. When an availability
// related field changes, the open slot inventory is discarded and
// regenerated; booked slots survive.
func UpdateDoctor(c *fiber.Ctx) error {
	id := c.Params("id")
	var doctor models.Doctor
	if err := db.DB.Preload("AvailableDays").First(&doctor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Doctor not found",
		})
	}

	var input struct {
		Name               *string                  `json:"name"`
		Qualification      *string                  `json:"qualification"`
		LicenseNo          *string                  `json:"license_no"`
		Mobile             *string                  `json:"mobile"`
		Email              *string                  `json:"email"`
		Gender             *string                  `json:"gender"`
		Bio                *string                  `json:"bio"`
		ExperienceYears    *int                     `json:"experience_years"`
		ConsultationFee    *float64                 `json:"consultation_fee"`
		Active             *bool                    `json:"active"`
		WorkingStartTime   *float64                 `json:"working_start_time"`
		WorkingEndTime     *float64                 `json:"working_end_time"`
		SlotDuration       *int                     `json:"slot_duration"`
		MaxPatientsPerSlot *int                     `json:"max_patients_per_slot"`
		AvailableDays      []models.AvailabilityDay `json:"available_days"`
		Specializations    []models.Service         `json:"specializations"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}

	if input.Name != nil {
		doctor.Name = *input.Name
	}
	if input.Qualification != nil {
		doctor.Qualification = *input.Qualification
	}
	if input.LicenseNo != nil {
		doctor.LicenseNo = *input.LicenseNo
	}
	if input.Mobile != nil {
		doctor.Mobile = *input.Mobile
	}
	if input.Email != nil {
		doctor.Email = *input.Email
	}
	if input.Gender != nil {
		doctor.Gender = *input.Gender
	}
	if input.Bio != nil {
		doctor.Bio = *input.Bio
	}
	if input.ExperienceYears != nil {
		doctor.ExperienceYears = *input.ExperienceYears
	}
	if input.ConsultationFee != nil {
		doctor.ConsultationFee = *input.ConsultationFee
	}
	if input.Active != nil {
		doctor.Active = *input.Active
	}

	regenerate := false
	if input.WorkingStartTime != nil && *input.WorkingStartTime != doctor.WorkingStartTime {
		doctor.WorkingStartTime = *input.WorkingStartTime
		regenerate = true
	}
	if input.WorkingEndTime != nil && *input.WorkingEndTime != doctor.WorkingEndTime {
		doctor.WorkingEndTime = *input.WorkingEndTime
		regenerate = true
	}
	if input.SlotDuration != nil && *input.SlotDuration != doctor.SlotDuration {
		doctor.SlotDuration = *input.SlotDuration
		regenerate = true
	}
	if input.MaxPatientsPerSlot != nil && *input.MaxPatientsPerSlot != doctor.MaxPatientsPerSlot {
		doctor.MaxPatientsPerSlot = *input.MaxPatientsPerSlot
		regenerate = true
	}
	// A nil slice means the body omitted the array, an explicit empty array
	// clears the days
	daysProvided := input.AvailableDays != nil
	if daysProvided && !doctor.SameAvailableDays(input.AvailableDays) {
		regenerate = true
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("AvailableDays", "Specializations").Save(&doctor).Error; err != nil {
			return err
		}
		if daysProvided {
			if err := tx.Where("doctor_id = ?", doctor.ID).
				Delete(&models.AvailabilityDay{}).Error; err != nil {
				return err
			}
			for i := range input.AvailableDays {
				input.AvailableDays[i].ID = 0
				input.AvailableDays[i].DoctorID = doctor.ID
			}
			if len(input.AvailableDays) > 0 {
				if err := tx.Create(&input.AvailableDays).Error; err != nil {
					return err
				}
			}
			doctor.AvailableDays = input.AvailableDays
		}
		if input.Specializations != nil {
			if err := tx.Model(&doctor).Association("Specializations").
				Replace(input.Specializations); err != nil {
				return err
			}
		}
		if regenerate {
			log.Printf("Availability changed for doctor %d, regenerating slots", doctor.ID)
			return doctor.RegenerateSlots(tx)
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(doctor)
}

// DeleteDoctor archives a doctor
func DeleteDoctor(c *fiber.Ctx) error {
	id := c.Params("id")
	var doctor models.Doctor
	if err := db.DB.First(&doctor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Doctor not found",
		})
	}
	if err := db.DB.Model(&doctor).Update("active", false).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to archive doctor",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateDoctorUser provisions a staff login for the doctor
func CreateDoctorUser(c *fiber.Ctx) error {
	id := c.Params("id")
	var doctor models.Doctor
	if err := db.DB.First(&doctor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Doctor not found",
		})
	}
	if doctor.UserID != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User already exists for this doctor",
		})
	}
	if doctor.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Doctor has no email address",
		})
	}

	var input struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password is required",
		})
	}

	var doctorRole models.Role
	if err := db.DB.Where("name = ?", "doctor").First(&doctorRole).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Role 'doctor' not found",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Name:     doctor.Name,
		Email:    doctor.Email,
		Password: string(hashedPassword),
		RoleID:   doctorRole.ID,
	}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Model(&doctor).Update("user_id", user.ID).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user: " + err.Error(),
		})
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(user)
}
