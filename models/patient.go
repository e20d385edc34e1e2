package models

import (
	"strings"

	"gorm.io/gorm"
)

type Patient struct {
	gorm.Model
	Name    string `json:"name" gorm:"not null"`
	Gender  string `json:"gender"`
	Age     int    `json:"age"`
	Phone   string `json:"phone" gorm:"uniqueIndex"`
	Email   string `json:"email"`
	Address string `json:"address"`

	// Symptom is the aggregated free-text history pulled from this patient's
	// appointments, rebuilt whenever one completes.
	Symptom string `json:"symptom"`

	Active bool `json:"active" gorm:"default:true"`

	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:PatientID"`
}

// RefreshSymptomHistory rebuilds the aggregated symptom text from every
// appointment that recorded one.
func (p *Patient) RefreshSymptomHistory(tx *gorm.DB) error {
	var symptoms []string
	err := tx.Model(&Appointment{}).
		Where("patient_id = ? AND symptom <> ''", p.ID).
		Order("appointment_date").
		Pluck("symptom", &symptoms).Error
	if err != nil {
		return err
	}
	p.Symptom = strings.Join(symptoms, "\n")
	return tx.Model(p).Update("symptom", p.Symptom).Error
}

// FindOrCreateByPhone deduplicates patients by phone number: an existing
// record is updated in place, otherwise a new one is created.
func FindOrCreateByPhone(tx *gorm.DB, in *Patient) (*Patient, error) {
	var existing Patient
	err := tx.Where("phone = ?", in.Phone).First(&existing).Error
	if err == nil {
		updates := map[string]interface{}{
			"name":   in.Name,
			"gender": in.Gender,
			"age":    in.Age,
		}
		if in.Email != "" {
			updates["email"] = in.Email
		}
		if in.Address != "" {
			updates["address"] = in.Address
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if err := tx.Create(in).Error; err != nil {
		return nil, err
	}
	return in, nil
}
