package repositories

import (
	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/pkg/orm"
)

// ProductRepository handles catalogue reads. Product detail pages are
// cache-friendly; everything checkout needs is re-read fresh so prices
// cannot go stale inside an order.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// FindByID loads one product.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := orm.DB().Model(&models.Product{}).Where("id = ?", id).First(&product)
	return product, err
}

// FindByIDs loads the given products in one query. Callers must check the
// returned slice covers every requested id; missing products are simply
// absent, not an error.
func (r *ProductRepository) FindByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().Model(&models.Product{}).Where("id IN ?", ids).Get(&products)
	return products, err
}

// All returns the catalogue, paginated, newest first.
func (r *ProductRepository) All(page, limit int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	pagination, err := orm.DB().Model(&models.Product{}).
		Order("created_at DESC").
		GetWithPagination(&products, page, limit)
	return products, pagination, err
}

// Create persists a new catalogue entry.
func (r *ProductRepository) Create(product *models.Product) error {
	return orm.DB().Create(product)
}

// Save persists changes to an existing product.
func (r *ProductRepository) Save(product *models.Product) error {
	return orm.DB().Save(product)
}
