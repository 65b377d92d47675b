package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	LocationStatusOpen   = "Open"
	LocationStatusClosed = "Closed"
)

// Location is a physical store. Orders, stock requests and daily inventory
// logs reference a location by its unique name rather than its numeric id, so
// the name doubles as a foreign key by value and must stay unique.
type Location struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"uniqueIndex;not null" json:"name"`
	Address      string         `json:"address"`
	GoogleMapURL string         `json:"google_map_url"`
	Status       string         `gorm:"default:Open" json:"status"` // Open, Closed
	HoursMonFri  string         `json:"hours_mon_fri"`
	HoursSatSun  string         `json:"hours_sat_sun"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
