package models

import (
	"time"

	"gorm.io/gorm"
)

// Prescription groups the medication lines written during one appointment.
type Prescription struct {
	gorm.Model
	AppointmentID uint        `json:"appointment_id" gorm:"index;not null"`
	Appointment   Appointment `json:"appointment,omitempty" gorm:"foreignKey:AppointmentID"`
	PatientID     uint        `json:"patient_id" gorm:"index"`
	DoctorID      uint        `json:"doctor_id" gorm:"index"`
	Notes         string      `json:"notes"`

	Medications []MedicationLine `json:"medications,omitempty" gorm:"foreignKey:PrescriptionID"`
}

// Total sums the medication line subtotals. Medications must be loaded.
func (p *Prescription) Total() float64 {
	var total float64
	for _, m := range p.Medications {
		total += m.Subtotal
	}
	return total
}

type MedicationLine struct {
	gorm.Model
	PrescriptionID uint    `json:"prescription_id" gorm:"index;not null"`
	MedicineName   string  `json:"medicine_name" gorm:"not null"`
	Dosage         string  `json:"dosage"`
	Frequency      string  `json:"frequency"`
	Quantity       int     `json:"quantity" gorm:"default:1"`
	UnitPrice      float64 `json:"unit_price"`
	Subtotal       float64 `json:"subtotal"`
}

func (m *MedicationLine) BeforeSave(tx *gorm.DB) error {
	m.Subtotal = float64(m.Quantity) * m.UnitPrice
	return nil
}

type LabTestState string

const (
	LabTestRequested LabTestState = "requested"
	LabTestCompleted LabTestState = "completed"
	LabTestCancelled LabTestState = "cancelled"
)

type LabTest struct {
	gorm.Model
	AppointmentID uint         `json:"appointment_id" gorm:"index;not null"`
	PatientID     uint         `json:"patient_id" gorm:"index"`
	DoctorID      uint         `json:"doctor_id" gorm:"index"`
	TestName      string       `json:"test_name" gorm:"not null"`
	Notes         string       `json:"notes"`
	Cost          float64      `json:"cost"`
	ResultText    string       `json:"result_text"`
	State         LabTestState `json:"state" gorm:"default:requested"`
	DateRequested time.Time    `json:"date_requested"`
	DateCompleted *time.Time   `json:"date_completed"`
}

func (l *LabTest) BeforeCreate(tx *gorm.DB) error {
	if l.DateRequested.IsZero() {
		l.DateRequested = time.Now()
	}
	return nil
}

// CompleteTest records the result and stamps the completion time.
func (l *LabTest) CompleteTest(tx *gorm.DB, result string) error {
	now := time.Now()
	l.State = LabTestCompleted
	l.ResultText = result
	l.DateCompleted = &now
	return tx.Save(l).Error
}
