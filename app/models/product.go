package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalogue entry. Orders never reference it live: checkout
// copies name, price, and image onto the OrderItem.
type Product struct {
	gorm.Model
	Name        string          `gorm:"size:255;not null;index"     json:"name"`
	Description string          `gorm:"type:text"                   json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0"          json:"stock"`
	SKU         string          `gorm:"size:100;uniqueIndex"        json:"sku"`
	Image       string          `gorm:"size:512"                    json:"image"`
}
