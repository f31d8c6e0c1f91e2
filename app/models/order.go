package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// allowedTransitions maps each status to the set of statuses an admin may
// move the order into. Forward jumps (PENDING → SHIPPED) are permitted;
// only the target set per state is enforced. DELIVERED and CANCELLED are
// terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Terminal reports whether no further transitions are possible from s.
func (s OrderStatus) Terminal() bool {
	return len(allowedTransitions[s]) == 0 && s.Valid()
}

// CanTransitionTo reports whether an order in status s may move to target.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range allowedTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Order is a placed customer order. Monetary fields are snapshots computed
// server-side at checkout; they never change after creation. Only Status
// (and UpdatedAt) mutate, through the transition rules above.
type Order struct {
	gorm.Model
	OrderNumber     string          `gorm:"size:64;uniqueIndex;not null"     json:"order_number"`
	CustomerEmail   string          `gorm:"size:255;not null;index"          json:"customer_email"`
	CustomerName    string          `gorm:"size:255;not null"                json:"customer_name"`
	CustomerPhone   string          `gorm:"size:50"                          json:"customer_phone"`
	CustomerEmirate string          `gorm:"size:100"                         json:"customer_emirate"`
	CustomerAddress string          `gorm:"type:text"                        json:"customer_address"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE"      json:"items"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null"      json:"subtotal"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null"      json:"discount_amount"`
	Shipping        decimal.Decimal `gorm:"type:decimal(10,2);not null"      json:"shipping"`
	VAT             decimal.Decimal `gorm:"type:decimal(10,2);not null"      json:"vat"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null"      json:"total"`
	Status          OrderStatus     `gorm:"size:20;not null;default:PENDING" json:"status"`
}

// OrderItem is one line of an order. Product name, price, and image are
// snapshots taken at purchase time so the order survives later product
// edits or deletion.
type OrderItem struct {
	gorm.Model
	OrderID     uint            `gorm:"not null;index"              json:"order_id"`
	ProductID   uint            `gorm:"not null"                    json:"product_id"`
	ProductName string          `gorm:"size:255;not null"           json:"product_name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity    int             `gorm:"not null"                    json:"quantity"`
	Image       string          `gorm:"size:512"                    json:"image"`
}

// OrderCounter backs order-number allocation. A single row per counter name
// is incremented under a row lock inside the order-create transaction, so
// concurrent checkouts can never mint the same number.
type OrderCounter struct {
	Name  string `gorm:"primaryKey;size:50"`
	Value int64  `gorm:"not null"`
}
