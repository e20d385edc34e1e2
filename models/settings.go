package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// WebsiteSettings is the singleton content record for the public site.
type WebsiteSettings struct {
	gorm.Model
	ClinicName        string `json:"clinic_name"`
	ClinicTagline     string `json:"clinic_tagline"`
	ClinicDescription string `json:"clinic_description"`

	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`

	FacebookURL  string `json:"facebook_url"`
	TwitterURL   string `json:"twitter_url"`
	InstagramURL string `json:"instagram_url"`
	LinkedinURL  string `json:"linkedin_url"`

	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`

	EnableOnlineBooking        bool   `json:"enable_online_booking" gorm:"default:true"`
	BookingConfirmationMessage string `json:"booking_confirmation_message"`

	FooterText    string `json:"footer_text"`
	CopyrightText string `json:"copyright_text"`
}

// GetSettings returns the settings record, creating a default one on first
// call.
func GetSettings(tx *gorm.DB) (*WebsiteSettings, error) {
	var settings WebsiteSettings
	err := tx.First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	settings = WebsiteSettings{
		ClinicName:          "Clinic",
		ClinicTagline:       "Your Health is Our Priority",
		EnableOnlineBooking: true,
		CopyrightText:       fmt.Sprintf("© %d Clinic. All Rights Reserved.", time.Now().Year()),
	}
	if err := tx.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
