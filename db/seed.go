package db

import (
	"log"

	"github.com/meinhoongagan/clinic-management/models"
)

// Seed creates the default roles and permissions the clinic relies on. Safe
// to re-run: existing records are left untouched.
func Seed() {
	roles := []models.Role{
		{Name: "admin", Description: "Administrator with full access"},
		{Name: "doctor", Description: "Doctor who runs consultations and writes prescriptions"},
		{Name: "receptionist", Description: "Front desk staff who manage bookings and schedules"},
	}

	for _, role := range roles {
		var existing models.Role
		if DB.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&role)
		}
	}

	resources := map[string][]string{
		"doctors":       {"create", "read", "update", "delete"},
		"patients":      {"create", "read", "update", "delete"},
		"appointments":  {"create", "read", "update", "delete"},
		"slots":         {"create", "read", "update"},
		"holidays":      {"create", "read", "update", "delete"},
		"prescriptions": {"create", "read", "update"},
		"invoices":      {"create", "read", "update"},
		"services":      {"create", "read", "update", "delete"},
		"testimonials":  {"read", "update", "delete"},
		"settings":      {"read", "update"},
		"dashboard":     {"read"},
	}

	for resource, actions := range resources {
		for _, action := range actions {
			name := action + "_" + resource
			var existing models.Permission
			if DB.Where("name = ?", name).First(&existing).RowsAffected == 0 {
				DB.Create(&models.Permission{
					Name:     name,
					Resource: resource,
					Action:   action,
				})
			}
		}
	}

	assignPermissions("admin", func(p models.Permission) bool { return true })
	assignPermissions("doctor", func(p models.Permission) bool {
		switch p.Resource {
		case "appointments", "prescriptions", "patients", "holidays", "dashboard":
			return p.Action != "delete"
		case "slots":
			return p.Action == "read"
		}
		return false
	})
	assignPermissions("receptionist", func(p models.Permission) bool {
		switch p.Resource {
		case "appointments", "patients", "invoices", "dashboard":
			return p.Action != "delete"
		case "slots", "services", "doctors":
			return p.Action == "read"
		}
		return false
	})
}

func assignPermissions(roleName string, include func(models.Permission) bool) {
	var role models.Role
	if DB.Where("name = ?", roleName).First(&role).RowsAffected == 0 {
		return
	}

	var all []models.Permission
	DB.Find(&all)

	var granted []models.Permission
	for _, p := range all {
		if include(p) {
			granted = append(granted, p)
		}
	}

	if err := DB.Model(&role).Association("Permissions").Replace(granted); err != nil {
		log.Printf("Failed to assign permissions to role %s: %v", roleName, err)
	}
}
