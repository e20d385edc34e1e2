package models

import (
	"time"
)

// User is a staff account (admin, doctor, receptionist). Patients are not
// users; they are plain records created through the booking intake.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"unique"`
	Password  string    `json:"password,omitempty"`
	RoleID    uint      `json:"role_id"`
	Role      Role      `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
