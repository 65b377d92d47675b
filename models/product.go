package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DiscountNone    = "none"
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"uniqueIndex;not null" json:"name"`
	Category      string         `gorm:"index" json:"category"`
	Price         float64        `gorm:"not null" json:"price"`
	ImageURL      string         `json:"image_url"`
	IsBestSeller  bool           `gorm:"default:false" json:"is_best_seller"`
	DiscountType  string         `gorm:"default:none" json:"discount_type"` // none, percent, fixed
	DiscountValue float64        `gorm:"default:0" json:"discount_value"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// EffectivePrice returns the current unit price with any active discount
// applied. This is the price shown in the cart and frozen into order items at
// checkout; it never goes below zero.
func (p *Product) EffectivePrice() float64 {
	price := p.Price
	switch p.DiscountType {
	case DiscountPercent:
		price = p.Price * (1 - p.DiscountValue/100)
	case DiscountFixed:
		price = p.Price - p.DiscountValue
	}
	if price < 0 {
		return 0
	}
	return price
}
