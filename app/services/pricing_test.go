package services_test

import (
	"errors"
	"testing"

	"github.com/shashiranjanraj/genosys/app/services"
	"github.com/shopspring/decimal"
)

func item(price string, qty int) services.PriceItem {
	return services.PriceItem{
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestPriceOrder_ClinicDiscountDubai(t *testing.T) {
	breakdown, err := services.PriceOrder(
		[]services.PriceItem{item("389.99", 1)},
		"Dubai",
		&services.DiscountProfile{Type: "CLINIC", Percentage: 50},
	)
	if err != nil {
		t.Fatalf("PriceOrder returned error: %v", err)
	}

	cases := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"subtotal", breakdown.Subtotal, "389.99"},
		{"discount", breakdown.DiscountAmount, "195.00"},
		{"shipping", breakdown.Shipping, "45.00"},
		{"vat", breakdown.VAT, "12.00"},
		{"total", breakdown.Total, "251.99"},
	}
	for _, c := range cases {
		if c.got.StringFixed(2) != c.want {
			t.Errorf("%s = %s, want %s", c.name, c.got.StringFixed(2), c.want)
		}
	}
	if breakdown.UnknownEmirate {
		t.Error("Dubai should be a known emirate")
	}
}

func TestPriceOrder_FreeShippingThreshold(t *testing.T) {
	breakdown, err := services.PriceOrder(
		[]services.PriceItem{item("1200.00", 1)},
		"Fujairah",
		nil,
	)
	if err != nil {
		t.Fatalf("PriceOrder returned error: %v", err)
	}

	if breakdown.Shipping.StringFixed(2) != "0.00" {
		t.Errorf("shipping = %s, want 0.00 at or above threshold", breakdown.Shipping.StringFixed(2))
	}
	if breakdown.VAT.StringFixed(2) != "60.00" {
		t.Errorf("vat = %s, want 60.00", breakdown.VAT.StringFixed(2))
	}
	if breakdown.Total.StringFixed(2) != "1260.00" {
		t.Errorf("total = %s, want 1260.00", breakdown.Total.StringFixed(2))
	}
}

func TestPriceOrder_ExactlyAtThresholdShipsFree(t *testing.T) {
	breakdown, err := services.PriceOrder(
		[]services.PriceItem{item("1000.00", 1)},
		"Dubai",
		nil,
	)
	if err != nil {
		t.Fatalf("PriceOrder returned error: %v", err)
	}
	if !breakdown.Shipping.IsZero() {
		t.Errorf("shipping = %s, want 0 at exactly 1000", breakdown.Shipping)
	}
}

func TestPriceOrder_UnknownEmirateChargesHighestTier(t *testing.T) {
	breakdown, err := services.PriceOrder(
		[]services.PriceItem{item("100.00", 1)},
		"Atlantis",
		nil,
	)
	if err != nil {
		t.Fatalf("PriceOrder returned error: %v", err)
	}
	if breakdown.Shipping.StringFixed(2) != "60.00" {
		t.Errorf("shipping = %s, want highest tier 60.00", breakdown.Shipping.StringFixed(2))
	}
	if !breakdown.UnknownEmirate {
		t.Error("expected UnknownEmirate to be set")
	}
}

func TestPriceOrder_DiscountAppliesBeforeVAT(t *testing.T) {
	// 100 − 50% = 50, + 45 shipping = 95 taxable, VAT 4.75, total 99.75.
	breakdown, err := services.PriceOrder(
		[]services.PriceItem{item("100.00", 1)},
		"Dubai",
		&services.DiscountProfile{Type: "VIP", Percentage: 50},
	)
	if err != nil {
		t.Fatalf("PriceOrder returned error: %v", err)
	}
	if breakdown.VAT.StringFixed(2) != "4.75" {
		t.Errorf("vat = %s, want 4.75 (tax after discount)", breakdown.VAT.StringFixed(2))
	}
	if breakdown.Total.StringFixed(2) != "99.75" {
		t.Errorf("total = %s, want 99.75", breakdown.Total.StringFixed(2))
	}
}

func TestPriceOrder_MultipleItems(t *testing.T) {
	breakdown, err := services.PriceOrder(
		[]services.PriceItem{item("98.00", 3), item("159.50", 2)},
		"Sharjah",
		nil,
	)
	if err != nil {
		t.Fatalf("PriceOrder returned error: %v", err)
	}
	// 294 + 319 = 613 subtotal, + 50 shipping = 663, VAT 33.15.
	if breakdown.Subtotal.StringFixed(2) != "613.00" {
		t.Errorf("subtotal = %s, want 613.00", breakdown.Subtotal.StringFixed(2))
	}
	if breakdown.Total.StringFixed(2) != "696.15" {
		t.Errorf("total = %s, want 696.15", breakdown.Total.StringFixed(2))
	}
}

func TestPriceOrder_EmptyCart(t *testing.T) {
	_, err := services.PriceOrder(nil, "Dubai", nil)
	if !errors.Is(err, services.ErrEmptyOrder) {
		t.Errorf("expected ErrEmptyOrder, got %v", err)
	}
}

func TestPriceOrder_NonPositiveQuantity(t *testing.T) {
	for _, qty := range []int{0, -1} {
		_, err := services.PriceOrder([]services.PriceItem{item("10.00", qty)}, "Dubai", nil)
		if !errors.Is(err, services.ErrInvalidQuantity) {
			t.Errorf("qty %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestPriceOrder_DiscountPercentageClamped(t *testing.T) {
	breakdown, err := services.PriceOrder(
		[]services.PriceItem{item("100.00", 1)},
		"Dubai",
		&services.DiscountProfile{Type: "VIP", Percentage: 150},
	)
	if err != nil {
		t.Fatalf("PriceOrder returned error: %v", err)
	}
	if breakdown.DiscountAmount.StringFixed(2) != "100.00" {
		t.Errorf("discount = %s, want clamp at 100%%", breakdown.DiscountAmount.StringFixed(2))
	}
}
