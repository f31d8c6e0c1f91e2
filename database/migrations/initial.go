package migrations

import (
	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/pkg/migration"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_products_table", &CreateProductsTable{})
	migration.Register("20260301000002_create_orders_tables", &CreateOrdersTables{})
	migration.Register("20260301000003_create_tracking_tables", &CreateTrackingTables{})
}

// -------- 0000: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0001: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0002: orders, items, and the order-number counter --------

type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCounter{},
	); err != nil {
		return err
	}
	// Seed the counter row so checkout transactions always find a row to
	// lock and never race to insert it.
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.OrderCounter{Name: "orders"}).Error
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders", "order_counters")
}

// -------- 0003: behavioural event tables --------

type CreateTrackingTables struct{}

func (m *CreateTrackingTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.PageView{},
		&models.UserAction{},
		&models.UserSession{},
	)
}

func (m *CreateTrackingTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("page_views", "user_actions", "user_sessions")
}
