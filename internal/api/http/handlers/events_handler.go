package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/api/dto"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/auth"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/service"
)

// EventsHandler exposes café event endpoints.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService) *EventsHandler {
	return &EventsHandler{events: eventService}
}

// List handles GET /events and GET /cafes/:slug/events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	var cafeSlug *string
	if slug := c.Params("slug"); slug != "" {
		cafeSlug = &slug
	}
	includePast := parseBoolQuery(c, "include_past", false)
	limit := parseIntQuery(c, "limit", 50)

	list, err := h.events.ListEvents(c.Context(), cafeSlug, includePast, limit)
	if err != nil {
		return err
	}

	viewer := ""
	if principal, ok := auth.PrincipalFromContext(c); ok {
		viewer = principal.Username()
	}
	resp := make([]dto.EventResponse, 0, len(list))
	for i := range list {
		resp = append(resp, eventResponse(&list[i], viewer))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Get handles GET /events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	event, err := h.events.GetEvent(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	viewer := ""
	if principal, ok := auth.PrincipalFromContext(c); ok {
		viewer = principal.Username()
	}
	return c.JSON(fiber.Map{"data": eventResponse(event, viewer)})
}

// Create handles POST /cafes/:slug/events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.EventCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	event, err := h.events.CreateEvent(c.Context(), principal.Username(), c.Params("slug"), req.Title, req.Description, req.StartsAt, req.EndsAt)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": eventResponse(event, principal.Username())})
}

// ToggleInteraction handles PUT /events/:id/interactions/:kind.
func (h *EventsHandler) ToggleInteraction(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	kind := domain.InteractionKind(c.Params("kind"))

	event, active, err := h.events.ToggleInteraction(c.Context(), principal.Username(), c.Params("id"), kind)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"event":  eventResponse(event, principal.Username()),
		"kind":   kind,
		"active": active,
	}})
}

func parseBoolQuery(c *fiber.Ctx, key string, defaultVal bool) bool {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func eventResponse(event *domain.Event, viewer string) dto.EventResponse {
	return dto.EventResponse{
		ID:          event.ID,
		CafeSlug:    event.CafeSlug,
		Title:       event.Title,
		Description: event.Description,
		StartsAt:    event.StartsAt,
		EndsAt:      event.EndsAt,
		Likes:       event.InteractionCount(domain.InteractionLike),
		Attendees:   event.InteractionCount(domain.InteractionAttend),
		Liked:       viewer != "" && event.HasInteraction(domain.InteractionLike, viewer),
		Attending:   viewer != "" && event.HasInteraction(domain.InteractionAttend, viewer),
	}
}
