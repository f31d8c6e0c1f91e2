package models

import "gorm.io/gorm"

// Discount tiers a customer account can be assigned. The percentage is read
// at checkout and snapshotted onto the order as a resolved amount, so later
// profile changes never rewrite historical orders.
const (
	DiscountClinic = "CLINIC"
	DiscountVIP    = "VIP"
)

// User is a storefront account (customer or admin).
type User struct {
	gorm.Model
	Name               string `gorm:"size:255;not null"             json:"name"`
	Email              string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password           string `gorm:"size:255;not null"             json:"-"` // bcrypt hash, never serialised
	Role               string `gorm:"size:50;default:customer"      json:"role"`
	DiscountType       string `gorm:"size:20"                       json:"discount_type"` // CLINIC | VIP | ""
	DiscountPercentage int    `gorm:"default:0"                     json:"discount_percentage"`
}

// HasDiscount reports whether the user carries an active discount profile.
func (u *User) HasDiscount() bool {
	return (u.DiscountType == DiscountClinic || u.DiscountType == DiscountVIP) &&
		u.DiscountPercentage > 0 && u.DiscountPercentage <= 100
}
