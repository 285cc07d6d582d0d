package events

import (
	"time"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderPlaced        EventType = "order_placed"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventOrderCancelled     EventType = "order_cancelled"
	EventStaffChanged       EventType = "staff_changed"
	EventMenuChanged        EventType = "menu_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	CafeSlug  string      `json:"cafe_slug"`
	Username  string      `json:"username"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderPlacedPayload payload.
type OrderPlacedPayload struct {
	OrderID    string  `json:"order_id"`
	Number     string  `json:"number"`
	TotalPrice float64 `json:"total_price"`
	ItemCount  int     `json:"item_count"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OrderID   string             `json:"order_id"`
	Number    string             `json:"number"`
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}

// StaffChangedPayload payload.
type StaffChangedPayload struct {
	StaffUsername string           `json:"staff_username"`
	Role          domain.StaffRole `json:"role,omitempty"`
	Removed       bool             `json:"removed,omitempty"`
}

// MenuChangedPayload payload.
type MenuChangedPayload struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name,omitempty"`
	Removed  bool   `json:"removed,omitempty"`
}
