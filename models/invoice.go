package models

import (
	"fmt"

	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "draft"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoided InvoiceStatus = "voided"
)

type Invoice struct {
	gorm.Model
	Reference     string        `json:"reference" gorm:"uniqueIndex"`
	AppointmentID uint          `json:"appointment_id" gorm:"uniqueIndex"`
	PatientID     uint          `json:"patient_id" gorm:"index"`
	Total         float64       `json:"total"`
	Status        InvoiceStatus `json:"status" gorm:"default:draft"`

	Lines []InvoiceLine `json:"lines,omitempty" gorm:"foreignKey:InvoiceID"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.Reference == "" {
		i.Reference = NewReference("INV")
	}
	return nil
}

type InvoiceLine struct {
	gorm.Model
	InvoiceID   uint    `json:"invoice_id" gorm:"index;not null"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity" gorm:"default:1"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// BuildInvoice creates the invoice for an appointment: one line for the
// consultation fee plus one per prescribed medication. Calling it again for
// the same appointment returns the existing invoice.
func BuildInvoice(tx *gorm.DB, appointment *Appointment) (*Invoice, error) {
	if appointment.InvoiceID != nil {
		var existing Invoice
		if err := tx.Preload("Lines").First(&existing, *appointment.InvoiceID).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}

	var lines []InvoiceLine
	if appointment.ConsultingFee > 0 {
		var doctor Doctor
		description := "Consultation"
		if err := tx.First(&doctor, appointment.DoctorID).Error; err == nil {
			description = fmt.Sprintf("Consultation - %s", doctor.Name)
		}
		lines = append(lines, InvoiceLine{
			Description: description,
			Quantity:    1,
			UnitPrice:   appointment.ConsultingFee,
			Subtotal:    appointment.ConsultingFee,
		})
	}

	var prescriptions []Prescription
	if err := tx.Preload("Medications").
		Where("appointment_id = ?", appointment.ID).
		Find(&prescriptions).Error; err != nil {
		return nil, err
	}
	for _, prescription := range prescriptions {
		for _, med := range prescription.Medications {
			if med.Quantity <= 0 {
				continue
			}
			description := med.MedicineName
			if med.Dosage != "" || med.Frequency != "" {
				description = fmt.Sprintf("%s - %s - %s", med.MedicineName, med.Dosage, med.Frequency)
			}
			lines = append(lines, InvoiceLine{
				Description: description,
				Quantity:    med.Quantity,
				UnitPrice:   med.UnitPrice,
				Subtotal:    med.Subtotal,
			})
		}
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("no items to invoice: add a consultation fee or prescription medications")
	}

	var total float64
	for _, line := range lines {
		total += line.Subtotal
	}

	invoice := Invoice{
		AppointmentID: appointment.ID,
		PatientID:     appointment.PatientID,
		Total:         total,
		Status:        InvoiceDraft,
		Lines:         lines,
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, err
	}

	appointment.InvoiceID = &invoice.ID
	if err := tx.Model(appointment).Update("invoice_id", invoice.ID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}
