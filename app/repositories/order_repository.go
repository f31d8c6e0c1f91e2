package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/pkg/database"
	"github.com/shashiranjanraj/genosys/pkg/orm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderCounterName is the single counter row backing order numbers.
const orderCounterName = "orders"

// OrderRepository persists Order + OrderItem aggregates.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create persists the order and its items in one transaction, allocating
// the next order number under a row lock on the counter. Two concurrent
// checkouts therefore always mint distinct numbers; the second
// transaction blocks on the lock until the first commits.
func (r *OrderRepository) Create(order *models.Order) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		// SQLite has no SELECT ... FOR UPDATE; its single-writer
		// transactions already serialise the increment.
		locked := tx
		if tx.Dialector.Name() != "sqlite" {
			locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var counter models.OrderCounter
		err := locked.
			Where("name = ?", orderCounterName).
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The row is seeded by the orders migration; this covers
			// stores migrated before the seed existed. Two transactions
			// can race into this branch, so the insert tolerates losing
			// and the value is re-read under the lock.
			seed := models.OrderCounter{Name: orderCounterName}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
				return fmt.Errorf("order repository: create counter: %w", err)
			}
			if err := locked.Where("name = ?", orderCounterName).First(&counter).Error; err != nil {
				return fmt.Errorf("order repository: reread counter: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("order repository: lock counter: %w", err)
		}

		counter.Value++
		if err := tx.Model(&models.OrderCounter{}).
			Where("name = ?", orderCounterName).
			Update("value", counter.Value).Error; err != nil {
			return fmt.Errorf("order repository: bump counter: %w", err)
		}

		order.OrderNumber = fmt.Sprintf("Genosys Order %d", counter.Value)
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("order repository: create order: %w", err)
		}
		return nil
	})
}

// FindByID loads an order with its items.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Where("id = ?", id).
		First(&order)
	return order, err
}

// FindByCustomerEmail returns the customer's orders, newest first.
func (r *OrderRepository) FindByCustomerEmail(email string) ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Get(&orders)
	return orders, err
}

// All returns orders for the admin console, newest first, paginated.
func (r *OrderRepository) All(page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.DB().Model(&models.Order{}).
		Preload("Items").
		Order("created_at DESC").
		GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// UpdateStatus persists a new status as a compare-and-set on the status
// the caller observed. Transition legality is checked by the caller; the
// from guard makes sure a concurrent transition cannot be overwritten
// with a decision based on a stale read. Only status (and updated_at,
// via GORM) change. Returns gorm.ErrRecordNotFound when the id is
// unknown or the row no longer holds from.
func (r *OrderRepository) UpdateStatus(id uint, from, to models.OrderStatus) error {
	res := database.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("order repository: update status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the order and its items permanently. Used by the
// customer pending-cancel path and administrative purge: a cancelled
// pending order must look like it never existed.
func (r *OrderRepository) Delete(id uint) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("order repository: delete items: %w", err)
		}
		res := tx.Unscoped().Delete(&models.Order{}, id)
		if res.Error != nil {
			return fmt.Errorf("order repository: delete order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountPlacedSince counts non-cancelled orders created in the window.
// Feeds the conversion-rate metric.
func (r *OrderRepository) CountPlacedSince(since time.Time) (int64, error) {
	return orm.DB().Model(&models.Order{}).
		Where("created_at >= ? AND status <> ?", since, models.StatusCancelled).
		Count()
}
