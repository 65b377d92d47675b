package models

import "time"

// StockItem is a master ingredient: the catalog daily counts and restock
// request forms are built from.
type StockItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Category  string    `gorm:"index" json:"category"`
	Quantity  float64   `gorm:"default:0" json:"quantity"`
	Unit      string    `json:"unit"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
