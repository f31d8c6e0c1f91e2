package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Pricing constants. VAT is the UAE flat 5%; orders at or above the
// free-shipping threshold ship for free regardless of emirate.
var (
	vatRate               = decimal.NewFromInt(5)
	freeShippingThreshold = decimal.NewFromInt(1000)
	oneHundred            = decimal.NewFromInt(100)
)

// shippingTable maps an emirate to its flat delivery fee in AED.
var shippingTable = map[string]decimal.Decimal{
	"Dubai":          decimal.NewFromInt(45),
	"Abu Dhabi":      decimal.NewFromInt(55),
	"Sharjah":        decimal.NewFromInt(50),
	"Ajman":          decimal.NewFromInt(50),
	"Umm Al Quwain":  decimal.NewFromInt(60),
	"Ras Al Khaimah": decimal.NewFromInt(60),
	"Fujairah":       decimal.NewFromInt(60),
}

// fallbackShipping is the highest tier in the table, charged when the
// emirate is unknown so checkout never fails on a bad region code.
var fallbackShipping = decimal.NewFromInt(60)

// PriceItem is one cart line as seen by the calculator.
type PriceItem struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// DiscountProfile is a customer's discount tier, resolved at checkout time.
type DiscountProfile struct {
	Type       string // CLINIC | VIP
	Percentage int    // 0–100
}

// PriceBreakdown is the result of pricing a cart. Every monetary field is
// rounded half-up to 2 decimal places; intermediates are kept at full
// precision so rounding never compounds.
type PriceBreakdown struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Shipping       decimal.Decimal
	VAT            decimal.Decimal
	Total          decimal.Decimal
	UnknownEmirate bool // fallback shipping tier was applied
}

// PriceOrder computes subtotal → discount → shipping → VAT → total.
// The step order is fixed: each step feeds the next, so reordering would
// change the result. The function is pure; callers log the fallback
// warning when UnknownEmirate is set.
func PriceOrder(items []PriceItem, emirate string, profile *DiscountProfile) (PriceBreakdown, error) {
	if len(items) == 0 {
		return PriceBreakdown{}, ErrEmptyOrder
	}

	subtotal := decimal.Zero
	for i, item := range items {
		if item.Quantity <= 0 {
			return PriceBreakdown{}, fmt.Errorf("item %d: %w", i, ErrInvalidQuantity)
		}
		if item.UnitPrice.IsNegative() {
			return PriceBreakdown{}, fmt.Errorf("item %d: negative unit price", i)
		}
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	discount := decimal.Zero
	if profile != nil && profile.Percentage > 0 {
		pct := profile.Percentage
		if pct > 100 {
			pct = 100
		}
		discount = subtotal.Mul(decimal.NewFromInt(int64(pct))).Div(oneHundred)
	}

	shipping, known := shippingTable[emirate]
	unknownEmirate := false
	if !known {
		shipping = fallbackShipping
		unknownEmirate = true
	}
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	taxable := subtotal.Sub(discount).Add(shipping)
	vat := taxable.Mul(vatRate).Div(oneHundred)
	total := taxable.Add(vat)

	return PriceBreakdown{
		Subtotal:       subtotal.Round(2),
		DiscountAmount: discount.Round(2),
		Shipping:       shipping.Round(2),
		VAT:            vat.Round(2),
		Total:          total.Round(2),
		UnknownEmirate: unknownEmirate,
	}, nil
}
