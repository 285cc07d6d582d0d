package domain

import (
	"errors"
	"time"
)

// OrderStatus enumerates lifecycle states for orders.
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ErrUnknownStatus signals a status value outside the defined enum.
// Callers must surface it rather than fall back to a default state,
// so UI bugs are not silently masked as cancellations or low privilege.
var ErrUnknownStatus = errors.New("unknown order status")

// CancelWindow is the default period after creation during which a
// placed order may still be cancelled.
const CancelWindow = 60 * time.Minute

// Valid reports whether the status is part of the closed enum.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// IsPending reports whether the order still awaits preparation.
func IsPending(s OrderStatus) (bool, error) {
	if !s.Valid() {
		return false, ErrUnknownStatus
	}
	return s == OrderStatusPlaced, nil
}

// IsOld reports whether the order reached a terminal state.
func IsOld(s OrderStatus) (bool, error) {
	if !s.Valid() {
		return false, ErrUnknownStatus
	}
	return s.Terminal(), nil
}

// BadgeVariant names the display style for an order status badge.
type BadgeVariant string

const (
	BadgeWarning BadgeVariant = "warning"
	BadgeSuccess BadgeVariant = "success"
	BadgeNeutral BadgeVariant = "neutral"
	BadgeDanger  BadgeVariant = "danger"
)

// DisplayVariant maps a status to its badge variant.
func DisplayVariant(s OrderStatus) (BadgeVariant, error) {
	switch s {
	case OrderStatusPlaced:
		return BadgeWarning, nil
	case OrderStatusReady:
		return BadgeSuccess, nil
	case OrderStatusCompleted:
		return BadgeNeutral, nil
	case OrderStatusCancelled:
		return BadgeDanger, nil
	}
	return "", ErrUnknownStatus
}

var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:    {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether the status change is allowed by the
// order state machine. Terminal states admit no outgoing transitions.
func CanTransition(current, next OrderStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// MinutesRemaining returns the whole minutes left in the cancellation
// window at the given instant. Negative once the window has lapsed.
// Advisory only: the authoritative cancel decision is made server-side
// at the moment of the request.
func MinutesRemaining(createdAt, now time.Time) int {
	return int(createdAt.Add(CancelWindow).Sub(now) / time.Minute)
}

// OrderItemOption is a chosen item option with its fee at order time.
type OrderItemOption struct {
	Type  string  `bson:"type" json:"type"`
	Value string  `bson:"value" json:"value"`
	Fee   float64 `bson:"fee" json:"fee"`
}

// OrderItem is a line item snapshot taken when the order was placed.
type OrderItem struct {
	Name     string            `bson:"name" json:"name"`
	Price    float64           `bson:"price" json:"price"`
	Quantity int               `bson:"quantity" json:"quantity"`
	Options  []OrderItemOption `bson:"options" json:"options"`
}

// Subtotal returns the line total including option fees.
func (i OrderItem) Subtotal() float64 {
	unit := i.Price
	for _, opt := range i.Options {
		unit += opt.Fee
	}
	qty := i.Quantity
	if qty <= 0 {
		qty = 1
	}
	return unit * float64(qty)
}

// Order is the aggregate for a placed café order. CreatedAt is
// immutable once set; countdown eligibility derives from it alone.
type Order struct {
	ID         string      `bson:"_id,omitempty" json:"id"`
	Number     string      `bson:"number" json:"number"`
	CafeSlug   string      `bson:"cafe_slug" json:"cafe_slug"`
	Username   string      `bson:"username" json:"username"`
	Items      []OrderItem `bson:"items" json:"items"`
	TotalPrice float64     `bson:"total_price" json:"total_price"`
	Status     OrderStatus `bson:"status" json:"status"`
	CreatedAt  time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `bson:"updated_at" json:"updated_at"`
}

// Total sums line subtotals.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}
