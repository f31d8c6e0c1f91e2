package services

import "errors"

// Error kinds surfaced by the order side of the core. Order mutations are
// strict: these propagate to the caller. Analytics and tracking never
// return errors at all; failures there are logged and swallowed.
var (
	// ErrEmptyOrder rejects checkout of a cart with no items.
	ErrEmptyOrder = errors.New("cannot price empty order")

	// ErrInvalidQuantity rejects items with a zero or negative quantity.
	ErrInvalidQuantity = errors.New("item quantity must be a positive integer")

	// ErrInvalidTransition rejects a status change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrOrderNotFound is returned for an unknown order id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrNotPending rejects a customer cancellation once the order has been
	// confirmed. Past PENDING, only an admin can cancel.
	ErrNotPending = errors.New("order is no longer pending")

	// ErrInvalidCredentials is returned by login on a bad email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProductNotFound rejects checkout of a cart referencing an unknown
	// product id.
	ErrProductNotFound = errors.New("product not found")

	// ErrEmailTaken is returned by registration when the address is in use.
	ErrEmailTaken = errors.New("email already registered")
)
