package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/app/repositories"
	"github.com/shashiranjanraj/genosys/pkg/bind"
	"github.com/shashiranjanraj/genosys/pkg/response"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductController struct {
	products *repositories.ProductRepository
}

func NewProductController() *ProductController {
	return &ProductController{products: repositories.NewProductRepository()}
}

// List handles GET /api/products.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, pagination, err := c.products.All(page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load products")
		return
	}

	response.Paginated(w, products, pagination)
}

// Get handles GET /api/products/{id}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := c.products.FindByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load product")
		return
	}

	response.Success(w, product)
}

// AdminCreate handles POST /api/admin/products.
func (c *ProductController) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string `json:"name"        validate:"required,max=255"`
		Description string `json:"description"`
		Price       string `json:"price"       validate:"required,numeric"`
		Stock       int    `json:"stock"       validate:"gte=0"`
		SKU         string `json:"sku"         validate:"required,alpha_dash"`
		Image       string `json:"image"       validate:"nullable,url"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.IsNegative() {
		response.ValidationError(w, map[string]string{"price": "The price must be a non-negative amount."})
		return
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		Stock:       in.Stock,
		SKU:         in.SKU,
		Image:       in.Image,
	}
	if err := c.products.Create(&product); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not create product")
		return
	}

	response.Created(w, product)
}
