package repositories_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/app/repositories"
	"github.com/shashiranjanraj/genosys/pkg/database"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func testOrder(email string) *models.Order {
	return &models.Order{
		CustomerEmail:   email,
		CustomerName:    "Test Customer",
		CustomerEmirate: "Dubai",
		CustomerAddress: "Somewhere in Dubai",
		Items: []models.OrderItem{{
			ProductID:   1,
			ProductName: "Hydrating Serum 30ml",
			Price:       decimal.RequireFromString("389.99"),
			Quantity:    1,
		}},
		Subtotal: decimal.RequireFromString("389.99"),
		Shipping: decimal.RequireFromString("45.00"),
		VAT:      decimal.RequireFromString("21.75"),
		Total:    decimal.RequireFromString("456.74"),
		Status:   models.StatusPending,
	}
}

func TestOrderCreate_SequentialOrderNumbers(t *testing.T) {
	setupDB(t)
	repo := repositories.NewOrderRepository()

	for i := 1; i <= 3; i++ {
		order := testOrder(fmt.Sprintf("customer%d@example.com", i))
		if err := repo.Create(order); err != nil {
			t.Fatalf("create order %d: %v", i, err)
		}
		want := fmt.Sprintf("Genosys Order %d", i)
		if order.OrderNumber != want {
			t.Errorf("order %d: number = %q, want %q", i, order.OrderNumber, want)
		}
	}
}

func TestOrderCreate_ContinuesFromSeededCounter(t *testing.T) {
	setupDB(t)
	if err := database.DB.Create(&models.OrderCounter{Name: "orders", Value: 41}).Error; err != nil {
		t.Fatalf("seed counter: %v", err)
	}
	repo := repositories.NewOrderRepository()

	order := testOrder("seeded@example.com")
	if err := repo.Create(order); err != nil {
		t.Fatalf("create: %v", err)
	}
	if order.OrderNumber != "Genosys Order 42" {
		t.Errorf("order number = %q, want \"Genosys Order 42\"", order.OrderNumber)
	}
}

func TestOrderCreate_PersistsItems(t *testing.T) {
	setupDB(t)
	repo := repositories.NewOrderRepository()

	order := testOrder("items@example.com")
	if err := repo.Create(order); err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := repo.FindByID(order.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(loaded.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(loaded.Items))
	}
	if loaded.Items[0].ProductName != "Hydrating Serum 30ml" {
		t.Errorf("item name = %q", loaded.Items[0].ProductName)
	}
	if loaded.Total.StringFixed(2) != "456.74" {
		t.Errorf("total = %s, want 456.74", loaded.Total.StringFixed(2))
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	setupDB(t)
	repo := repositories.NewOrderRepository()

	order := testOrder("status@example.com")
	if err := repo.Create(order); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateStatus(order.ID, models.StatusPending, models.StatusConfirmed); err != nil {
		t.Fatalf("update status: %v", err)
	}
	loaded, err := repo.FindByID(order.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Status != models.StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", loaded.Status)
	}
	if loaded.Subtotal.StringFixed(2) != "389.99" {
		t.Errorf("subtotal changed during status update: %s", loaded.Subtotal.StringFixed(2))
	}
}

func TestOrderUpdateStatus_UnknownID(t *testing.T) {
	setupDB(t)
	repo := repositories.NewOrderRepository()

	err := repo.UpdateStatus(9999, models.StatusPending, models.StatusConfirmed)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestOrderUpdateStatus_StaleFromStatus(t *testing.T) {
	setupDB(t)
	repo := repositories.NewOrderRepository()

	order := testOrder("stale@example.com")
	if err := repo.Create(order); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdateStatus(order.ID, models.StatusPending, models.StatusDelivered); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	// A writer still holding the PENDING view must not overwrite the row.
	err := repo.UpdateStatus(order.ID, models.StatusPending, models.StatusCancelled)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for a stale from-status, got %v", err)
	}
	loaded, err := repo.FindByID(order.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Status != models.StatusDelivered {
		t.Errorf("status = %s, want DELIVERED untouched", loaded.Status)
	}
}

func TestOrderDelete_IsPermanent(t *testing.T) {
	setupDB(t)
	repo := repositories.NewOrderRepository()

	order := testOrder("delete@example.com")
	if err := repo.Create(order); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Gone for real, not soft-deleted.
	var check models.Order
	err := database.DB.Unscoped().First(&check, order.ID).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("order row still present after delete: %v", err)
	}
	var items int64
	if err := database.DB.Unscoped().Model(&models.OrderItem{}).
		Where("order_id = ?", order.ID).Count(&items).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if items != 0 {
		t.Errorf("order items still present after delete: %d", items)
	}
}

func TestOrderDelete_UnknownID(t *testing.T) {
	setupDB(t)
	repo := repositories.NewOrderRepository()

	if err := repo.Delete(9999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestOrderCountPlacedSince_ExcludesCancelled(t *testing.T) {
	setupDB(t)
	repo := repositories.NewOrderRepository()

	for i := 0; i < 3; i++ {
		order := testOrder(fmt.Sprintf("count%d@example.com", i))
		if err := repo.Create(order); err != nil {
			t.Fatalf("create: %v", err)
		}
		if i == 0 {
			if err := repo.UpdateStatus(order.ID, models.StatusPending, models.StatusCancelled); err != nil {
				t.Fatalf("cancel: %v", err)
			}
		}
	}

	n, err := repo.CountPlacedSince(time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("placed = %d, want 2 (cancelled excluded)", n)
	}
}

func TestOrderFindByCustomerEmail(t *testing.T) {
	setupDB(t)
	repo := repositories.NewOrderRepository()

	for _, email := range []string{"a@example.com", "b@example.com", "a@example.com"} {
		if err := repo.Create(testOrder(email)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	orders, err := repo.FindByCustomerEmail("a@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(orders))
	}
	for _, o := range orders {
		if o.CustomerEmail != "a@example.com" {
			t.Errorf("leaked order for %s", o.CustomerEmail)
		}
	}
}
