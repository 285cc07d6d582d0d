package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/auth"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/events"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/repository"
	apperrors "github.com/ceduni/cafe-sans-fil-sub001/pkg/util"
)

// OrderService coordinates order placement and lifecycle transitions.
// The clock is injected so window checks are deterministic under test;
// the cancel decision is always made here against that clock, never
// trusted from a client-computed countdown.
type OrderService struct {
	orders       repository.OrderRepository
	cafes        repository.CafeRepository
	dispatcher   events.Dispatcher
	cancelWindow time.Duration
	now          func() time.Time
}

// OrderDependencies bundles requirements for the order service.
type OrderDependencies struct {
	OrderRepo    repository.OrderRepository
	CafeRepo     repository.CafeRepository
	Dispatcher   events.Dispatcher
	CancelWindow time.Duration
	Now          func() time.Time
}

// OrderLineInput selects a menu item with options at placement time.
type OrderLineInput struct {
	ItemID   string
	Quantity int
	Options  []string // option values picked from the item's catalog
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	window := deps.CancelWindow
	if window <= 0 {
		window = domain.CancelWindow
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &OrderService{
		orders:       deps.OrderRepo,
		cafes:        deps.CafeRepo,
		dispatcher:   deps.Dispatcher,
		cancelWindow: window,
		now:          now,
	}
}

// PlaceOrder creates an order from the café's current menu. Prices and
// option fees are snapshotted server-side; the client total is ignored.
func (s *OrderService) PlaceOrder(ctx context.Context, username, cafeSlug string, lines []OrderLineInput) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, apperrors.NewValidationError("order needs at least one item", nil)
	}
	cafe, err := s.cafes.GetBySlug(ctx, cafeSlug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("cafe", map[string]any{"slug": cafeSlug})
		}
		return nil, apperrors.MapError(err)
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		menuItem, ok := cafe.MenuItemByID(line.ItemID)
		if !ok {
			return nil, apperrors.NewValidationError("unknown menu item", map[string]any{"item_id": line.ItemID})
		}
		if !menuItem.InStock {
			return nil, apperrors.NewConflict("item out of stock", map[string]any{"item_id": line.ItemID})
		}

		item := domain.OrderItem{
			Name:     menuItem.Name,
			Price:    menuItem.Price,
			Quantity: line.Quantity,
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		for _, value := range line.Options {
			opt, ok := optionByValue(menuItem, value)
			if !ok {
				return nil, apperrors.NewValidationError("unknown item option", map[string]any{"item_id": line.ItemID, "option": value})
			}
			item.Options = append(item.Options, domain.OrderItemOption{Type: opt.Type, Value: opt.Value, Fee: opt.Fee})
		}
		items = append(items, item)
	}

	order := &domain.Order{
		Number:    generateOrderNumber(),
		CafeSlug:  cafeSlug,
		Username:  username,
		Items:     items,
		Status:    domain.OrderStatusPlaced,
		CreatedAt: s.now(),
	}
	order.TotalPrice = order.Total()

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventOrderPlaced,
		CafeSlug: cafeSlug,
		Username: username,
		Payload: events.OrderPlacedPayload{
			OrderID:    order.ID,
			Number:     order.Number,
			TotalPrice: order.TotalPrice,
			ItemCount:  len(order.Items),
		},
	})
	return order, nil
}

// GetOrderForUser fetches an order the caller may see: its owner, or
// staff of the café it was placed at.
func (s *OrderService) GetOrderForUser(ctx context.Context, username, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
		}
		return nil, apperrors.MapError(err)
	}
	if order.Username == username {
		return order, nil
	}
	cafe, err := s.cafes.GetBySlug(ctx, order.CafeSlug)
	if err == nil && auth.HasStaffAccess(cafe, username) {
		return order, nil
	}
	return nil, apperrors.NewForbidden("access denied")
}

// ListUserOrders returns the caller's orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, username string, statuses []domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	return s.orders.List(ctx, repository.OrderFilter{
		Username: &username,
		Statuses: statuses,
		Limit:    limit,
		Offset:   offset,
	})
}

// ListCafeOrders returns a café's orders for its staff.
func (s *OrderService) ListCafeOrders(ctx context.Context, actor, cafeSlug string, statuses []domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	cafe, err := s.cafes.GetBySlug(ctx, cafeSlug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("cafe", map[string]any{"slug": cafeSlug})
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.HasStaffAccess(cafe, actor) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	return s.orders.List(ctx, repository.OrderFilter{
		CafeSlug: &cafeSlug,
		Statuses: statuses,
		Limit:    limit,
		Offset:   offset,
	})
}

// CancelOrder cancels the caller's own placed order. Authoritative
// window check: the order must still be PLACED and inside the
// cancellation window at this instant.
func (s *OrderService) CancelOrder(ctx context.Context, username, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
		}
		return nil, apperrors.MapError(err)
	}
	if order.Username != username {
		return nil, apperrors.NewForbidden("access denied")
	}
	if order.Status != domain.OrderStatusPlaced {
		return nil, apperrors.NewConflict("order can no longer be cancelled", map[string]any{"status": order.Status})
	}
	if s.now().After(order.CreatedAt.Add(s.cancelWindow)) {
		return nil, apperrors.NewConflict("cancellation window has lapsed", map[string]any{
			"created_at":     order.CreatedAt,
			"window_minutes": int(s.cancelWindow / time.Minute),
		})
	}

	if err := s.transition(ctx, order, domain.OrderStatusCancelled); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventOrderCancelled,
		CafeSlug: order.CafeSlug,
		Username: username,
		Payload: events.OrderStatusChangedPayload{
			OrderID:   order.ID,
			Number:    order.Number,
			OldStatus: domain.OrderStatusPlaced,
			NewStatus: domain.OrderStatusCancelled,
		},
	})
	return order, nil
}

// UpdateStatus moves an order along the state machine; café staff only.
func (s *OrderService) UpdateStatus(ctx context.Context, actor, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, apperrors.NewValidationError("unknown order status", map[string]any{"status": next})
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("order", map[string]any{"order_id": orderID})
		}
		return nil, apperrors.MapError(err)
	}

	cafe, err := s.cafes.GetBySlug(ctx, order.CafeSlug)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !auth.HasStaffAccess(cafe, actor) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	if !domain.CanTransition(order.Status, next) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": order.Status,
			"to":   next,
		})
	}

	oldStatus := order.Status
	if err := s.transition(ctx, order, next); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventOrderStatusChanged,
		CafeSlug: order.CafeSlug,
		Username: actor,
		Payload: events.OrderStatusChangedPayload{
			OrderID:   order.ID,
			Number:    order.Number,
			OldStatus: oldStatus,
			NewStatus: next,
		},
	})
	return order, nil
}

// MinutesRemaining reports the advisory cancel countdown for an order
// at the service clock's current instant.
func (s *OrderService) MinutesRemaining(order *domain.Order) int {
	return int(order.CreatedAt.Add(s.cancelWindow).Sub(s.now()) / time.Minute)
}

func (s *OrderService) transition(ctx context.Context, order *domain.Order, next domain.OrderStatus) error {
	if err := s.orders.UpdateStatus(ctx, order.ID, order.Status, next); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Lost the compare-and-set: someone else moved the order first.
			return apperrors.NewConflict("order changed concurrently", map[string]any{"order_id": order.ID})
		}
		return apperrors.MapError(err)
	}
	order.Status = next
	return nil
}

func optionByValue(item *domain.MenuItem, value string) (domain.MenuItemOption, bool) {
	for _, opt := range item.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return domain.MenuItemOption{}, false
}

func generateOrderNumber() string {
	return "CMD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
