package seeders

import (
	"errors"

	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/pkg/auth"
	"github.com/shashiranjanraj/genosys/pkg/collection"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("clinic_customer", SeedClinicCustomer)
	Register("products", SeedProducts)
}

// SeedAdminUser creates the initial admin account. Idempotent: skipped
// when the email already exists.
func SeedAdminUser(db *gorm.DB) error {
	var existing models.User
	err := db.Where("email = ?", "admin@genosys.ae").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword("admin-change-me")
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:     "Genosys Admin",
		Email:    "admin@genosys.ae",
		Password: hash,
		Role:     "admin",
	}).Error
}

// SeedClinicCustomer creates a demo customer on the CLINIC discount tier.
func SeedClinicCustomer(db *gorm.DB) error {
	var existing models.User
	err := db.Where("email = ?", "clinic@example.com").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword("clinic-change-me")
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:               "Demo Clinic",
		Email:              "clinic@example.com",
		Password:           hash,
		Role:               "customer",
		DiscountType:       models.DiscountClinic,
		DiscountPercentage: 50,
	}).Error
}

// SeedProducts loads the starter catalogue, skipping SKUs that already
// exist so re-running seed is safe.
func SeedProducts(db *gorm.DB) error {
	catalogue := []models.Product{
		{Name: "Hydrating Serum 30ml", SKU: "GEN-SER-030", Price: decimal.NewFromFloat(389.99), Stock: 120},
		{Name: "Repair Cream 50ml", SKU: "GEN-CRM-050", Price: decimal.NewFromFloat(245.00), Stock: 80},
		{Name: "Sun Shield SPF50", SKU: "GEN-SUN-050", Price: decimal.NewFromFloat(159.50), Stock: 200},
		{Name: "Clinic Pro Kit", SKU: "GEN-KIT-PRO", Price: decimal.NewFromFloat(1200.00), Stock: 25},
		{Name: "Gentle Cleanser 150ml", SKU: "GEN-CLN-150", Price: decimal.NewFromFloat(98.00), Stock: 300},
	}

	var existing []models.Product
	skus := collection.Map(catalogue, func(p models.Product) string { return p.SKU })
	if err := db.Where("sku IN ?", skus).Find(&existing).Error; err != nil {
		return err
	}
	taken := make(map[string]bool, len(existing))
	for _, p := range existing {
		taken[p.SKU] = true
	}

	missing := collection.Filter(catalogue, func(p models.Product) bool { return !taken[p.SKU] })
	if len(missing) == 0 {
		return nil
	}
	return db.Create(&missing).Error
}
