package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/service"
)

// SearchHandler exposes the café/menu search endpoint.
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler constructs handler.
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{search: searchService}
}

// Search handles GET /search?q=.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return fiber.NewError(http.StatusBadRequest, "query parameter q required")
	}
	limit := parseIntQuery(c, "limit", 20)

	result, err := h.search.Search(c.Context(), query, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}
