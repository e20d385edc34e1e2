package models

import (
	"time"

	"gorm.io/gorm"
)

type TestimonialState string

const (
	TestimonialDraft     TestimonialState = "draft"
	TestimonialPublished TestimonialState = "published"
	TestimonialRejected  TestimonialState = "rejected"
)

// Testimonial is a patient review shown on the public site once published.
type Testimonial struct {
	gorm.Model
	Name             string           `json:"name" gorm:"not null"`
	Rating           int              `json:"rating" gorm:"default:5"`
	Comment          string           `json:"comment" gorm:"not null"`
	ImageURL         string           `json:"image_url"`
	ServiceID        *uint            `json:"service_id"`
	DoctorID         *uint            `json:"doctor_id"`
	Date             time.Time        `json:"date"`
	DisplayOnWebsite bool             `json:"display_on_website" gorm:"default:true"`
	State            TestimonialState `json:"state" gorm:"default:draft;index"`
}

func (t *Testimonial) BeforeCreate(tx *gorm.DB) error {
	if t.Rating < 1 {
		t.Rating = 1
	} else if t.Rating > 5 {
		t.Rating = 5
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	return nil
}

// PublishedTestimonials returns the reviews eligible for the public site,
// newest first.
func PublishedTestimonials(tx *gorm.DB) ([]Testimonial, error) {
	var testimonials []Testimonial
	err := tx.Where("state = ? AND display_on_website = ?", TestimonialPublished, true).
		Order("date desc, id desc").
		Find(&testimonials).Error
	return testimonials, err
}
