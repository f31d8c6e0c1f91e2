package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/app/services"
	"github.com/shashiranjanraj/genosys/pkg/bind"
	"github.com/shashiranjanraj/genosys/pkg/middleware"
	"github.com/shashiranjanraj/genosys/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{service: services.NewOrderService()}
}

// Checkout handles POST /api/orders. The authenticated account's email
// overrides whatever the body claims, so a customer can only order as
// themselves.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	var in services.CheckoutInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if claims, ok := middleware.ClaimsFromCtx(r.Context()); ok {
		in.CustomerEmail = claims.Email
	}

	order, err := c.service.Checkout(r.Context(), in)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	response.Created(w, order)
}

// MyOrders handles GET /api/orders: the customer's own orders.
func (c *OrderController) MyOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	orders, err := c.service.ListForCustomer(claims.Email)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}

	response.Success(w, orders)
}

// Cancel handles DELETE /api/orders/{id}. Customers may only cancel their
// own orders, and only while still pending; the order is then gone for
// good.
func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	id, err := orderID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	if err := c.service.CancelPending(r.Context(), id, claims.Email); err != nil {
		writeOrderError(w, err)
		return
	}

	response.NoContent(w)
}

// AdminList handles GET /api/admin/orders.
func (c *OrderController) AdminList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	orders, pagination, err := c.service.ListAll(page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}

	response.Paginated(w, orders, pagination)
}

// AdminUpdateStatus handles PATCH /api/admin/orders/{id}/status.
func (c *OrderController) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	var in struct {
		Status string `json:"status" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.UpdateStatus(r.Context(), id, models.OrderStatus(in.Status))
	if err != nil {
		writeOrderError(w, err)
		return
	}

	response.Success(w, order)
}

func orderID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	return uint(id), err
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrNotPending):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrProductNotFound):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "Order operation failed")
	}
}
