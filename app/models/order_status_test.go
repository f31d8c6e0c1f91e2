package models_test

import (
	"testing"

	"github.com/shashiranjanraj/genosys/app/models"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusPending, models.StatusShipped, true}, // forward jump
		{models.StatusPending, models.StatusDelivered, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusShipped, true},
		{models.StatusConfirmed, models.StatusDelivered, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusShipped, models.StatusDelivered, true},
		{models.StatusShipped, models.StatusCancelled, true},

		{models.StatusConfirmed, models.StatusPending, false}, // no going back
		{models.StatusShipped, models.StatusConfirmed, false},
		{models.StatusDelivered, models.StatusCancelled, false}, // terminal
		{models.StatusDelivered, models.StatusPending, false},
		{models.StatusCancelled, models.StatusConfirmed, false}, // terminal
		{models.StatusPending, models.StatusPending, false},     // no self loop
	}

	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.allowed {
			t.Errorf("%s → %s: got %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusShipped,
		models.StatusDelivered, models.StatusCancelled,
	} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if models.OrderStatus("REFUNDED").Valid() {
		t.Error("REFUNDED should not be a valid status")
	}
	if models.OrderStatus("pending").Valid() {
		t.Error("statuses are case-sensitive")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if !models.StatusDelivered.Terminal() || !models.StatusCancelled.Terminal() {
		t.Error("DELIVERED and CANCELLED are terminal")
	}
	if models.StatusPending.Terminal() || models.StatusShipped.Terminal() {
		t.Error("PENDING and SHIPPED are not terminal")
	}
	if models.OrderStatus("REFUNDED").Terminal() {
		t.Error("unknown statuses are not terminal")
	}
}
