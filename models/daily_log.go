package models

import "time"

// DailyLogEditWindow is how long the submitter may edit or delete their own
// count after submission, unless a manager unlocks it.
const DailyLogEditWindow = 5 * time.Minute

// DailyInventoryLog is one store's end-of-day ingredient count. At most one
// log exists per (location, report_date); the composite unique index enforces
// what the workflow assumes.
type DailyInventoryLog struct {
	ID           uint                 `gorm:"primaryKey" json:"id"`
	LocationName string               `gorm:"not null;index;uniqueIndex:idx_daily_logs_location_date" json:"location_name"`
	UserID       uint                 `gorm:"not null;index" json:"user_id"`
	User         User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ReportDate   string               `gorm:"not null;uniqueIndex:idx_daily_logs_location_date" json:"report_date"` // YYYY-MM-DD
	IsUnlocked   bool                 `gorm:"default:false" json:"is_unlocked"`
	Items        []DailyInventoryItem `gorm:"foreignKey:LogID" json:"items,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type DailyInventoryItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	LogID    uint    `gorm:"not null;index" json:"log_id"`
	ItemName string  `gorm:"not null" json:"item_name"`
	Category string  `json:"category"`
	Quantity float64 `gorm:"not null" json:"quantity"`
	Unit     string  `json:"unit"`
}

// CanEdit decides whether the principal may edit or delete this log at the
// given instant. Managers always can; an explicit unlock always can; otherwise
// only the submitter, and only within DailyLogEditWindow of submission.
// Handlers re-check this server-side before every mutation.
func (l *DailyInventoryLog) CanEdit(p Principal, now time.Time) bool {
	if p.Policy().CanOverrideDailyLock() {
		return true
	}
	if l.IsUnlocked {
		return true
	}
	if p.Superuser {
		return false
	}
	return p.UserID == l.UserID && now.Sub(l.CreatedAt) <= DailyLogEditWindow
}
