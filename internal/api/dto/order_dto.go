package dto

import (
	"time"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
)

// PlaceOrderRequest payload.
type PlaceOrderRequest struct {
	CafeSlug string             `json:"cafe_slug"`
	Items    []OrderLineRequest `json:"items"`
}

// OrderLineRequest selects a menu item at placement time.
type OrderLineRequest struct {
	ItemID   string   `json:"item_id"`
	Quantity int      `json:"quantity"`
	Options  []string `json:"options"`
}

// OrderStatusRequest payload.
type OrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// OrderResponse is the order projection. MinutesRemaining is the
// advisory cancel countdown; Badge is the status display variant.
type OrderResponse struct {
	ID               string              `json:"id"`
	Number           string              `json:"number"`
	CafeSlug         string              `json:"cafe_slug"`
	Username         string              `json:"username"`
	Items            []OrderItemResponse `json:"items"`
	TotalPrice       float64             `json:"total_price"`
	Status           domain.OrderStatus  `json:"status"`
	Badge            domain.BadgeVariant `json:"badge"`
	MinutesRemaining *int                `json:"minutes_remaining,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// OrderItemResponse is a line item projection.
type OrderItemResponse struct {
	Name     string                   `json:"name"`
	Price    float64                  `json:"price"`
	Quantity int                      `json:"quantity"`
	Options  []domain.OrderItemOption `json:"options"`
	Subtotal float64                  `json:"subtotal"`
}
