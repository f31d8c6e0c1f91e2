package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/app/services"
	"github.com/shashiranjanraj/genosys/pkg/database"
	"github.com/shopspring/decimal"
)

func seedProduct(t *testing.T, name, sku, price string) models.Product {
	t.Helper()
	p := models.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: 100,
		SKU:   sku,
	}
	if err := database.DB.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func seedClinicUser(t *testing.T, email string) {
	t.Helper()
	u := models.User{
		Name:               "Clinic Customer",
		Email:              email,
		Password:           "irrelevant",
		Role:               "customer",
		DiscountType:       models.DiscountClinic,
		DiscountPercentage: 50,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func checkoutInput(email string, items ...services.CheckoutItem) services.CheckoutInput {
	return services.CheckoutInput{
		CustomerEmail:   email,
		CustomerName:    "Test Customer",
		CustomerEmirate: "Dubai",
		CustomerAddress: "Somewhere in Dubai",
		Items:           items,
	}
}

func TestCheckout_PricesFromCatalogueWithDiscount(t *testing.T) {
	setupDB(t)
	serum := seedProduct(t, "Hydrating Serum 30ml", "SER-030", "389.99")
	seedClinicUser(t, "clinic@example.com")

	svc := services.NewOrderService()
	order, err := svc.Checkout(context.Background(), checkoutInput("clinic@example.com",
		services.CheckoutItem{ProductID: serum.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if order.OrderNumber != "Genosys Order 1" {
		t.Errorf("order number = %q, want \"Genosys Order 1\"", order.OrderNumber)
	}
	if order.Status != models.StatusPending {
		t.Errorf("status = %s, want PENDING", order.Status)
	}
	cases := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"subtotal", order.Subtotal, "389.99"},
		{"discount", order.DiscountAmount, "195.00"},
		{"shipping", order.Shipping, "45.00"},
		{"vat", order.VAT, "12.00"},
		{"total", order.Total, "251.99"},
	}
	for _, c := range cases {
		if c.got.StringFixed(2) != c.want {
			t.Errorf("%s = %s, want %s", c.name, c.got.StringFixed(2), c.want)
		}
	}
	if len(order.Items) != 1 || order.Items[0].ProductName != "Hydrating Serum 30ml" {
		t.Errorf("items not snapshotted from catalogue: %+v", order.Items)
	}
}

func TestCheckout_GuestGetsNoDiscount(t *testing.T) {
	setupDB(t)
	kit := seedProduct(t, "Clinic Pro Kit", "KIT-001", "1200.00")

	svc := services.NewOrderService()
	order, err := svc.Checkout(context.Background(), checkoutInput("guest@example.com",
		services.CheckoutItem{ProductID: kit.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if !order.DiscountAmount.IsZero() {
		t.Errorf("discount = %s, want 0 for unknown account", order.DiscountAmount)
	}
	if !order.Shipping.IsZero() {
		t.Errorf("shipping = %s, want free above threshold", order.Shipping)
	}
	if order.Total.StringFixed(2) != "1260.00" {
		t.Errorf("total = %s, want 1260.00", order.Total.StringFixed(2))
	}
}

func TestCheckout_UnknownProduct(t *testing.T) {
	setupDB(t)

	svc := services.NewOrderService()
	_, err := svc.Checkout(context.Background(), checkoutInput("x@example.com",
		services.CheckoutItem{ProductID: 42, Quantity: 1}))
	if !errors.Is(err, services.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	setupDB(t)

	svc := services.NewOrderService()
	_, err := svc.Checkout(context.Background(), checkoutInput("x@example.com"))
	if !errors.Is(err, services.ErrEmptyOrder) {
		t.Errorf("expected ErrEmptyOrder, got %v", err)
	}
}

func TestUpdateStatus_EnforcesTransitions(t *testing.T) {
	setupDB(t)
	p := seedProduct(t, "Toner", "TON-001", "99.00")

	svc := services.NewOrderService()
	order, err := svc.Checkout(context.Background(), checkoutInput("t@example.com",
		services.CheckoutItem{ProductID: p.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if updated.Status != models.StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", updated.Status)
	}

	// No going back.
	if _, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusPending); !errors.Is(err, services.ErrInvalidTransition) {
		t.Errorf("CONFIRMED → PENDING: expected ErrInvalidTransition, got %v", err)
	}
	// Unknown status string.
	if _, err := svc.UpdateStatus(context.Background(), order.ID, "REFUNDED"); !errors.Is(err, services.ErrInvalidTransition) {
		t.Errorf("unknown status: expected ErrInvalidTransition, got %v", err)
	}
	// Unknown order.
	if _, err := svc.UpdateStatus(context.Background(), 9999, models.StatusShipped); !errors.Is(err, services.ErrOrderNotFound) {
		t.Errorf("unknown id: expected ErrOrderNotFound, got %v", err)
	}
}

func TestCancelPending(t *testing.T) {
	setupDB(t)
	p := seedProduct(t, "Cleanser", "CLE-001", "75.00")

	svc := services.NewOrderService()
	order, err := svc.Checkout(context.Background(), checkoutInput("owner@example.com",
		services.CheckoutItem{ProductID: p.ID, Quantity: 2}))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// Someone else's token must not see the order at all.
	if err := svc.CancelPending(context.Background(), order.ID, "stranger@example.com"); !errors.Is(err, services.ErrOrderNotFound) {
		t.Errorf("wrong owner: expected ErrOrderNotFound, got %v", err)
	}

	if err := svc.CancelPending(context.Background(), order.ID, "owner@example.com"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Get(order.ID); !errors.Is(err, services.ErrOrderNotFound) {
		t.Errorf("order still readable after cancel: %v", err)
	}
}

func TestCancelPending_OnlyWhilePending(t *testing.T) {
	setupDB(t)
	p := seedProduct(t, "Mask", "MAS-001", "50.00")

	svc := services.NewOrderService()
	order, err := svc.Checkout(context.Background(), checkoutInput("owner@example.com",
		services.CheckoutItem{ProductID: p.ID, Quantity: 1}))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if err := svc.CancelPending(context.Background(), order.ID, "owner@example.com"); !errors.Is(err, services.ErrNotPending) {
		t.Errorf("expected ErrNotPending, got %v", err)
	}
	if _, err := svc.Get(order.ID); err != nil {
		t.Errorf("confirmed order must survive the cancel attempt: %v", err)
	}
}
