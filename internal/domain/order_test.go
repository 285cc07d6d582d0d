package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func TestStatusClassification(t *testing.T) {
	for _, status := range allStatuses {
		pending, err := IsPending(status)
		require.NoError(t, err)
		old, err := IsOld(status)
		require.NoError(t, err)

		assert.False(t, pending && old, "pending and old are mutually exclusive for %s", status)
		assert.Equal(t, status == OrderStatusPlaced, pending)
		assert.Equal(t, status.Terminal(), old)
	}

	// PLACED is pending, READY is active-non-pending, terminal states
	// are old: together the three classes cover the whole enum.
	for _, status := range allStatuses {
		pending, _ := IsPending(status)
		old, _ := IsOld(status)
		activeNonPending := status == OrderStatusReady
		assert.True(t, pending || old || activeNonPending, "status %s unclassified", status)
	}
}

func TestUnknownStatusIsAnError(t *testing.T) {
	_, err := IsPending("SHIPPED")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = IsOld("")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = DisplayVariant("Placée")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestDisplayVariant(t *testing.T) {
	cases := map[OrderStatus]BadgeVariant{
		OrderStatusPlaced:    BadgeWarning,
		OrderStatusReady:     BadgeSuccess,
		OrderStatusCompleted: BadgeNeutral,
		OrderStatusCancelled: BadgeDanger,
	}
	for status, want := range cases {
		variant, err := DisplayVariant(status)
		require.NoError(t, err)
		assert.Equal(t, want, variant)
	}
}

func TestTransitions(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPlaced, OrderStatusReady))
	assert.True(t, CanTransition(OrderStatusPlaced, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusReady, OrderStatusCompleted))
	assert.True(t, CanTransition(OrderStatusReady, OrderStatusCancelled))

	assert.False(t, CanTransition(OrderStatusPlaced, OrderStatusCompleted))
	assert.False(t, CanTransition(OrderStatusReady, OrderStatusPlaced))

	for _, terminal := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled} {
		for _, next := range allStatuses {
			assert.False(t, CanTransition(terminal, next),
				"terminal state %s must not transition to %s", terminal, next)
		}
	}
}

func TestMinutesRemaining(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, MinutesRemaining(createdAt, createdAt.Add(30*time.Minute)))
	assert.Equal(t, 60, MinutesRemaining(createdAt, createdAt))
	assert.LessOrEqual(t, MinutesRemaining(createdAt, createdAt.Add(90*time.Minute)), 0)
}

func TestMinutesRemainingMonotonic(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	prev := MinutesRemaining(createdAt, createdAt)
	for offset := time.Minute; offset <= 2*time.Hour; offset += time.Minute {
		current := MinutesRemaining(createdAt, createdAt.Add(offset))
		assert.LessOrEqual(t, current, prev, "countdown must never increase as time advances")
		prev = current
	}
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{
		Name:     "Latte",
		Price:    4.50,
		Quantity: 2,
		Options: []OrderItemOption{
			{Type: "milk", Value: "oat", Fee: 0.75},
			{Type: "size", Value: "large", Fee: 1.00},
		},
	}
	assert.InDelta(t, 12.50, item.Subtotal(), 1e-9)

	// zero quantity counts as one
	single := OrderItem{Name: "Espresso", Price: 2.00}
	assert.InDelta(t, 2.00, single.Subtotal(), 1e-9)
}

func TestOrderTotal(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{Name: "Latte", Price: 4.50, Quantity: 1},
			{Name: "Muffin", Price: 3.00, Quantity: 2},
		},
	}
	assert.InDelta(t, 10.50, order.Total(), 1e-9)
}
