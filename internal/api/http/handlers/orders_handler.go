package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/api/dto"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/auth"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/service"
)

// OrdersHandler exposes order placement and lifecycle endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orderService}
}

// Place handles POST /orders.
func (h *OrdersHandler) Place(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CafeSlug == "" || len(req.Items) == 0 {
		return fiber.NewError(http.StatusBadRequest, "cafe_slug and items required")
	}

	lines := make([]service.OrderLineInput, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLineInput{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Options:  item.Options,
		})
	}

	order, err := h.orders.PlaceOrder(c.Context(), principal.Username(), req.CafeSlug, lines)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.orderResponse(order)})
}

// ListMine handles GET /orders.
func (h *OrdersHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 50)

	orders, err := h.orders.ListUserOrders(c.Context(), principal.Username(), parseStatusQuery(c), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.orderResponses(orders)})
}

// Get handles GET /orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	order, err := h.orders.GetOrderForUser(c.Context(), principal.Username(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.orderResponse(order)})
}

// Cancel handles POST /orders/:id/cancel.
func (h *OrdersHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	order, err := h.orders.CancelOrder(c.Context(), principal.Username(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.orderResponse(order)})
}

// UpdateStatus handles PUT /orders/:id/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.OrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.orders.UpdateStatus(c.Context(), principal.Username(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.orderResponse(order)})
}

// ListForCafe handles GET /cafes/:slug/orders.
func (h *OrdersHandler) ListForCafe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 50)

	orders, err := h.orders.ListCafeOrders(c.Context(), principal.Username(), c.Params("slug"), parseStatusQuery(c), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.orderResponses(orders)})
}

func parseStatusQuery(c *fiber.Ctx) []domain.OrderStatus {
	var statuses []domain.OrderStatus
	if val := c.Query("status"); val != "" {
		status := domain.OrderStatus(val)
		if status.Valid() {
			statuses = append(statuses, status)
		}
	}
	return statuses
}

func (h *OrdersHandler) orderResponse(order *domain.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Options:  item.Options,
			Subtotal: item.Subtotal(),
		})
	}

	resp := dto.OrderResponse{
		ID:         order.ID,
		Number:     order.Number,
		CafeSlug:   order.CafeSlug,
		Username:   order.Username,
		Items:      items,
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	// Statuses come straight from storage here; an unknown value means
	// corrupt data and surfaces as a missing badge rather than a guess.
	if badge, err := domain.DisplayVariant(order.Status); err == nil {
		resp.Badge = badge
	}
	if pending, err := domain.IsPending(order.Status); err == nil && pending {
		remaining := h.orders.MinutesRemaining(order)
		resp.MinutesRemaining = &remaining
	}
	return resp
}

func (h *OrdersHandler) orderResponses(orders []domain.Order) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, h.orderResponse(&orders[i]))
	}
	return resp
}
