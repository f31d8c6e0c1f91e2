package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/genosys/app/models"
	"github.com/shashiranjanraj/genosys/app/repositories"
	"github.com/shashiranjanraj/genosys/pkg/event"
	"github.com/shashiranjanraj/genosys/pkg/logger"
	"github.com/shashiranjanraj/genosys/pkg/metrics"
	"github.com/shashiranjanraj/genosys/pkg/orm"
	"gorm.io/gorm"
)

// OrderService owns order creation and lifecycle. Everything here is
// strict: validation failures and storage errors propagate to the caller,
// unlike the tracking and analytics paths.
type OrderService struct {
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
	users    *repositories.UserRepository
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders:   repositories.NewOrderRepository(),
		products: repositories.NewProductRepository(),
		users:    repositories.NewUserRepository(),
	}
}

// CheckoutItem is one cart line as submitted by the client. Only the
// product id and quantity are trusted; price and name come from the
// catalogue at checkout time.
type CheckoutItem struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required"`
}

// CheckoutInput is the checkout request payload. It deliberately has no
// monetary fields: totals are always computed server-side.
type CheckoutInput struct {
	CustomerEmail   string         `json:"customer_email"   validate:"required,email"`
	CustomerName    string         `json:"customer_name"    validate:"required"`
	CustomerPhone   string         `json:"customer_phone"`
	CustomerEmirate string         `json:"customer_emirate" validate:"required"`
	CustomerAddress string         `json:"customer_address" validate:"required"`
	Items           []CheckoutItem `json:"items"`
}

// Checkout prices the cart from catalogue data, resolves the customer's
// discount tier, and persists the order with a freshly allocated order
// number. The stored totals are authoritative regardless of anything the
// client displayed.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (models.Order, error) {
	if len(in.Items) == 0 {
		return models.Order{}, ErrEmptyOrder
	}

	ids := make([]uint, 0, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return models.Order{}, fmt.Errorf("product %d: %w", item.ProductID, ErrInvalidQuantity)
		}
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.FindByIDs(ids)
	if err != nil {
		return models.Order{}, fmt.Errorf("checkout: load products: %w", err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	priceItems := make([]PriceItem, 0, len(in.Items))
	orderItems := make([]models.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			return models.Order{}, fmt.Errorf("product %d: %w", item.ProductID, ErrProductNotFound)
		}
		priceItems = append(priceItems, PriceItem{
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    item.Quantity,
			Image:       product.Image,
		})
	}

	breakdown, err := PriceOrder(priceItems, in.CustomerEmirate, s.discountProfile(in.CustomerEmail))
	if err != nil {
		return models.Order{}, err
	}
	if breakdown.UnknownEmirate {
		logger.WithCtx(ctx).Warn("checkout: unknown emirate, charging highest shipping tier",
			"emirate", in.CustomerEmirate,
			"customer_email", in.CustomerEmail,
		)
	}

	order := models.Order{
		CustomerEmail:   in.CustomerEmail,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerEmirate: in.CustomerEmirate,
		CustomerAddress: in.CustomerAddress,
		Items:           orderItems,
		Subtotal:        breakdown.Subtotal,
		DiscountAmount:  breakdown.DiscountAmount,
		Shipping:        breakdown.Shipping,
		VAT:             breakdown.VAT,
		Total:           breakdown.Total,
		Status:          models.StatusPending,
	}
	if err := s.orders.Create(&order); err != nil {
		return models.Order{}, err
	}

	metrics.OrdersCreated.Inc()
	event.FireAsync(event.OrderCreated, order)
	logger.WithCtx(ctx).Info("order created",
		"order_number", order.OrderNumber,
		"customer_email", order.CustomerEmail,
		"total", order.Total,
	)
	return order, nil
}

// discountProfile resolves the customer's tier at checkout time. A missing
// account or a lookup failure simply means no discount; checkout must not
// fail because the discount lookup did.
func (s *OrderService) discountProfile(email string) *DiscountProfile {
	user, err := s.users.FindByEmail(email)
	if err != nil || !user.HasDiscount() {
		return nil
	}
	return &DiscountProfile{Type: user.DiscountType, Percentage: user.DiscountPercentage}
}

// UpdateStatus moves an order through the state machine. Admin only; the
// route guard enforces the role, this enforces the edges.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, target models.OrderStatus) (models.Order, error) {
	if !target.Valid() {
		return models.Order{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}

	order, err := s.orders.FindByID(id)
	if err != nil {
		return models.Order{}, translateNotFound(err)
	}
	if !order.Status.CanTransitionTo(target) {
		return models.Order{}, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, order.Status, target)
	}

	if err := s.orders.UpdateStatus(id, order.Status, target); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The order existed a moment ago, so the row must have moved
			// to a different status under us.
			return models.Order{}, fmt.Errorf("%w: order changed status concurrently", ErrInvalidTransition)
		}
		return models.Order{}, err
	}

	metrics.OrderTransitions.WithLabelValues(string(order.Status), string(target)).Inc()
	event.FireAsync(event.OrderStatusChanged, map[string]interface{}{
		"order_number": order.OrderNumber,
		"from":         order.Status,
		"to":           target,
	})
	logger.WithCtx(ctx).Info("order status changed",
		"order_number", order.OrderNumber,
		"from", order.Status,
		"to", target,
	)

	order.Status = target
	return order, nil
}

// CancelPending deletes a customer's own order, permanently, while it is
// still PENDING. Once confirmed the order is out of the customer's hands
// and only an admin CANCELLED transition applies.
func (s *OrderService) CancelPending(ctx context.Context, id uint, customerEmail string) error {
	order, err := s.orders.FindByID(id)
	if err != nil {
		return translateNotFound(err)
	}
	if order.CustomerEmail != customerEmail {
		// Not the owner. Indistinguishable from a missing order on purpose.
		return ErrOrderNotFound
	}
	if order.Status != models.StatusPending {
		return ErrNotPending
	}

	if err := s.orders.Delete(id); err != nil {
		return translateNotFound(err)
	}

	event.FireAsync(event.OrderCancelled, map[string]interface{}{
		"order_number":   order.OrderNumber,
		"customer_email": order.CustomerEmail,
	})
	logger.WithCtx(ctx).Info("pending order cancelled by customer",
		"order_number", order.OrderNumber,
		"customer_email", order.CustomerEmail,
	)
	return nil
}

// Get loads one order with its items.
func (s *OrderService) Get(id uint) (models.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		return models.Order{}, translateNotFound(err)
	}
	return order, nil
}

// ListForCustomer returns the customer's own orders, newest first.
func (s *OrderService) ListForCustomer(email string) ([]models.Order, error) {
	return s.orders.FindByCustomerEmail(email)
}

// ListAll returns every order for the admin console.
func (s *OrderService) ListAll(page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.orders.All(page, limit)
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	return err
}
