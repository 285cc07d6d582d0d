package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/api/dto"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/auth"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/service"
)

// CafesHandler exposes café directory, roster, and menu endpoints.
type CafesHandler struct {
	cafes *service.CafeService
}

// NewCafesHandler constructs handler.
func NewCafesHandler(cafeService *service.CafeService) *CafesHandler {
	return &CafesHandler{cafes: cafeService}
}

// List handles GET /cafes.
func (h *CafesHandler) List(c *fiber.Ctx) error {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 50)

	cafes, err := h.cafes.ListCafes(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}

	now := time.Now()
	resp := make([]dto.CafeSummary, 0, len(cafes))
	for i := range cafes {
		resp = append(resp, dto.CafeSummary{
			Slug:     cafes[i].Slug,
			Name:     cafes[i].Name,
			Location: cafes[i].Location,
			IsOpen:   cafes[i].IsOpenAt(now),
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create handles POST /cafes. The caller becomes the café's first admin.
func (h *CafesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.CafeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	cafe, err := h.cafes.CreateCafe(c.Context(), principal.Username(), req.Slug, req.Name, req.Description, req.Location, req.OpeningHours)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": cafeDetailResponse(cafe)})
}

// Get handles GET /cafes/:slug.
func (h *CafesHandler) Get(c *fiber.Ctx) error {
	cafe, err := h.cafes.GetCafe(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": cafeDetailResponse(cafe)})
}

// Update handles PUT /cafes/:slug (admin gated by route middleware).
func (h *CafesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.CafeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	cafe, err := h.cafes.UpdateCafe(c.Context(), principal.Username(), c.Params("slug"), req.Name, req.Description, req.Location, req.OpeningHours)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": cafeDetailResponse(cafe)})
}

// ListStaff handles GET /cafes/:slug/staff.
func (h *CafesHandler) ListStaff(c *fiber.Ctx) error {
	cafe, ok := auth.CafeFromContext(c)
	if !ok {
		var err error
		cafe, err = h.cafes.GetCafe(c.Context(), c.Params("slug"))
		if err != nil {
			return err
		}
	}
	resp := make([]dto.StaffResponse, 0, len(cafe.Staff))
	for _, entry := range cafe.Staff {
		resp = append(resp, dto.StaffResponse{Username: entry.Username, Role: entry.Role})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// AddStaff handles POST /cafes/:slug/staff.
func (h *CafesHandler) AddStaff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.StaffAddRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" {
		return fiber.NewError(http.StatusBadRequest, "username required")
	}

	cafe, err := h.cafes.AddStaff(c.Context(), principal.Username(), c.Params("slug"), req.Username, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": cafeDetailResponse(cafe)})
}

// ChangeStaffRole handles PATCH /cafes/:slug/staff/:username.
func (h *CafesHandler) ChangeStaffRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.StaffRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	cafe, err := h.cafes.ChangeStaffRole(c.Context(), principal.Username(), c.Params("slug"), c.Params("username"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": cafeDetailResponse(cafe)})
}

// RemoveStaff handles DELETE /cafes/:slug/staff/:username.
func (h *CafesHandler) RemoveStaff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	if err := h.cafes.RemoveStaff(c.Context(), principal.Username(), c.Params("slug"), c.Params("username")); err != nil {
		return err
	}
	return c.Status(http.StatusNoContent).Send(nil)
}

// ListMenu handles GET /cafes/:slug/menu.
func (h *CafesHandler) ListMenu(c *fiber.Ctx) error {
	cafe, err := h.cafes.GetCafe(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}
	resp := make([]dto.MenuItemResponse, 0, len(cafe.Menu))
	for i := range cafe.Menu {
		resp = append(resp, menuItemResponse(&cafe.Menu[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// AddMenuItem handles POST /cafes/:slug/menu.
func (h *CafesHandler) AddMenuItem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.MenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	item, err := h.cafes.AddMenuItem(c.Context(), principal.Username(), c.Params("slug"), menuItemInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": menuItemResponse(item)})
}

// UpdateMenuItem handles PUT /cafes/:slug/menu/:itemID.
func (h *CafesHandler) UpdateMenuItem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.MenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	item, err := h.cafes.UpdateMenuItem(c.Context(), principal.Username(), c.Params("slug"), c.Params("itemID"), menuItemInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": menuItemResponse(item)})
}

// SetMenuItemStock handles PATCH /cafes/:slug/menu/:itemID/stock.
func (h *CafesHandler) SetMenuItemStock(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req dto.MenuItemStockRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	item, err := h.cafes.SetMenuItemStock(c.Context(), principal.Username(), c.Params("slug"), c.Params("itemID"), req.InStock)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": menuItemResponse(item)})
}

// RemoveMenuItem handles DELETE /cafes/:slug/menu/:itemID.
func (h *CafesHandler) RemoveMenuItem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	if err := h.cafes.RemoveMenuItem(c.Context(), principal.Username(), c.Params("slug"), c.Params("itemID")); err != nil {
		return err
	}
	return c.Status(http.StatusNoContent).Send(nil)
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

func menuItemInput(req dto.MenuItemRequest) service.MenuItemInput {
	return service.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		InStock:     req.InStock,
		Options:     req.Options,
	}
}

func menuItemResponse(item *domain.MenuItem) dto.MenuItemResponse {
	return dto.MenuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price,
		InStock:     item.InStock,
		Options:     item.Options,
	}
}

func cafeDetailResponse(cafe *domain.Cafe) dto.CafeDetailResponse {
	staff := make([]dto.StaffResponse, 0, len(cafe.Staff))
	for _, entry := range cafe.Staff {
		staff = append(staff, dto.StaffResponse{Username: entry.Username, Role: entry.Role})
	}
	menu := make([]dto.MenuItemResponse, 0, len(cafe.Menu))
	for i := range cafe.Menu {
		menu = append(menu, menuItemResponse(&cafe.Menu[i]))
	}
	return dto.CafeDetailResponse{
		Slug:         cafe.Slug,
		Name:         cafe.Name,
		Description:  cafe.Description,
		Location:     cafe.Location,
		IsOpen:       cafe.IsOpenAt(time.Now()),
		OpeningHours: cafe.OpeningHours,
		Staff:        staff,
		Menu:         menu,
	}
}
