package dto

import (
	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
)

// CafeCreateRequest payload.
type CafeCreateRequest struct {
	Slug         string                `json:"slug"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Location     string                `json:"location"`
	OpeningHours []domain.OpeningShift `json:"opening_hours"`
}

// CafeUpdateRequest payload.
type CafeUpdateRequest struct {
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Location     string                `json:"location"`
	OpeningHours []domain.OpeningShift `json:"opening_hours"`
}

// CafeSummary is the directory projection.
type CafeSummary struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Location string `json:"location"`
	IsOpen   bool   `json:"is_open"`
}

// CafeDetailResponse provides full café info.
type CafeDetailResponse struct {
	Slug         string                `json:"slug"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Location     string                `json:"location"`
	IsOpen       bool                  `json:"is_open"`
	OpeningHours []domain.OpeningShift `json:"opening_hours"`
	Staff        []StaffResponse       `json:"staff"`
	Menu         []MenuItemResponse    `json:"menu"`
}

// StaffResponse is a roster entry projection.
type StaffResponse struct {
	Username string           `json:"username"`
	Role     domain.StaffRole `json:"role"`
}

// StaffAddRequest payload.
type StaffAddRequest struct {
	Username string           `json:"username"`
	Role     domain.StaffRole `json:"role"`
}

// StaffRoleRequest payload.
type StaffRoleRequest struct {
	Role domain.StaffRole `json:"role"`
}

// MenuItemRequest payload for create/update.
type MenuItemRequest struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Category    string                  `json:"category"`
	Price       float64                 `json:"price"`
	InStock     bool                    `json:"in_stock"`
	Options     []domain.MenuItemOption `json:"options"`
}

// MenuItemStockRequest payload.
type MenuItemStockRequest struct {
	InStock bool `json:"in_stock"`
}

// MenuItemResponse projection.
type MenuItemResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Category    string                  `json:"category"`
	Price       float64                 `json:"price"`
	InStock     bool                    `json:"in_stock"`
	Options     []domain.MenuItemOption `json:"options"`
}
