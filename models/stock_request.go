package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockRequestStatus string

const (
	StockRequestPending   StockRequestStatus = "Pending"
	StockRequestConfirmed StockRequestStatus = "Confirmed"
	StockRequestRejected  StockRequestStatus = "Rejected"
)

// StockRequest is a restock order a store sends to head office: a header plus
// line items, scoped to a location by name like orders are.
type StockRequest struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	Reference    string             `gorm:"uniqueIndex" json:"reference"`
	UserID       uint               `gorm:"not null;index" json:"user_id"`
	User         User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	LocationName string             `gorm:"not null;index" json:"location_name"`
	Status       StockRequestStatus `gorm:"default:Pending" json:"status"`
	Items        []StockRequestItem `gorm:"foreignKey:StockRequestID" json:"items,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type StockRequestItem struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	StockRequestID uint    `gorm:"not null;index" json:"stock_request_id"`
	ItemName       string  `gorm:"not null" json:"item_name"`
	Category       string  `json:"category"`
	Quantity       float64 `gorm:"not null" json:"quantity"`
}

func (r *StockRequest) BeforeCreate(tx *gorm.DB) error {
	if r.Reference == "" {
		r.Reference = "REQ" + time.Now().Format("20060102") + "-" + uuid.New().String()[:8]
	}
	return nil
}

// ResolveStockRequestStatus maps a resolve action to the final status.
// Only Pending requests may be resolved, and only to Confirmed or Rejected.
func ResolveStockRequestStatus(action string) (StockRequestStatus, bool) {
	switch action {
	case "confirm":
		return StockRequestConfirmed, true
	case "reject":
		return StockRequestRejected, true
	}
	return "", false
}
