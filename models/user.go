package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin        = "admin"
	RoleManager      = "manager"
	RoleStoreManager = "store_manager"
	RoleStaff        = "staff"
	RoleCashier      = "cashier"
	RoleUser         = "user"
)

type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`
	Password           string         `gorm:"not null" json:"-"`
	Name               string         `json:"name"`
	Role               string         `gorm:"default:user" json:"role"` // admin, manager, store_manager, staff, cashier, user
	AssignedLocationID *uint          `gorm:"index" json:"assigned_location_id,omitempty"`
	AssignedLocation   *Location      `gorm:"foreignKey:AssignedLocationID" json:"assigned_location,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// RoleNeedsLocation reports whether accounts with the given role must carry an
// assigned location. Head-office roles and plain customers do not.
func RoleNeedsLocation(role string) bool {
	switch role {
	case RoleStoreManager, RoleStaff, RoleCashier:
		return true
	}
	return false
}
