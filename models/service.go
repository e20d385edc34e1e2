package models

import (
	"gorm.io/gorm"
)

// Service is a clinic service/treatment, also used as a doctor
// specialization.
type Service struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	Active      bool   `json:"active" gorm:"default:true"`
	Color       int    `json:"color"`

	Doctors []Doctor `json:"doctors,omitempty" gorm:"many2many:doctor_specializations;"`
}

// AppointmentCount returns the number of appointments booked for this
// service.
func (s *Service) AppointmentCount(tx *gorm.DB) (int64, error) {
	var count int64
	err := tx.Model(&Appointment{}).Where("service_id = ?", s.ID).Count(&count).Error
	return count, err
}
