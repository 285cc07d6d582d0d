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

// CafeService coordinates café, roster, and menu workflows. Every
// mutating call re-resolves the actor's role against the café snapshot
// read in that call.
type CafeService struct {
	cafes      repository.CafeRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// CafeDependencies bundles requirements for the café service.
type CafeDependencies struct {
	CafeRepo   repository.CafeRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// MenuItemInput describes menu item creation/update payload.
type MenuItemInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	InStock     bool
	Options     []domain.MenuItemOption
}

// NewCafeService constructs the service.
func NewCafeService(deps CafeDependencies) *CafeService {
	return &CafeService{
		cafes:      deps.CafeRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateCafe registers a new café with the creator as its first admin,
// so every roster starts with exactly one admin.
func (s *CafeService) CreateCafe(ctx context.Context, actor, slug, name, description, location string, openingHours []domain.OpeningShift) (*domain.Cafe, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" || strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("slug and name required", nil)
	}
	if _, err := s.cafes.GetBySlug(ctx, slug); err == nil {
		return nil, apperrors.NewConflict("cafe slug already taken", map[string]any{"slug": slug})
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.MapError(err)
	}

	cafe := &domain.Cafe{
		Slug:         slug,
		Name:         strings.TrimSpace(name),
		Description:  description,
		Location:     location,
		OpeningHours: openingHours,
		Staff:        []domain.StaffMember{{Username: actor, Role: domain.StaffRoleAdmin}},
	}
	if err := s.cafes.Create(ctx, cafe); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventStaffChanged,
		CafeSlug: slug,
		Username: actor,
		Payload:  events.StaffChangedPayload{StaffUsername: actor, Role: domain.StaffRoleAdmin},
	})
	return cafe, nil
}

// ListCafes returns the café directory.
func (s *CafeService) ListCafes(ctx context.Context, limit, offset int) ([]domain.Cafe, error) {
	return s.cafes.List(ctx, limit, offset)
}

// GetCafe fetches a café by slug.
func (s *CafeService) GetCafe(ctx context.Context, slug string) (*domain.Cafe, error) {
	cafe, err := s.cafes.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return cafe, nil
}

// UpdateCafe modifies café metadata; admin only.
func (s *CafeService) UpdateCafe(ctx context.Context, actor string, slug, name, description, location string, openingHours []domain.OpeningShift) (*domain.Cafe, error) {
	cafe, err := s.requireRole(ctx, slug, actor, auth.IsAdmin)
	if err != nil {
		return nil, err
	}
	if name != "" {
		cafe.Name = name
	}
	if description != "" {
		cafe.Description = description
	}
	if location != "" {
		cafe.Location = location
	}
	if openingHours != nil {
		cafe.OpeningHours = openingHours
	}
	if err := s.cafes.Update(ctx, cafe); err != nil {
		return nil, apperrors.MapError(err)
	}
	return cafe, nil
}

// AddStaff adds a roster entry; admin only. The username must belong
// to an existing account and not already appear on the roster.
func (s *CafeService) AddStaff(ctx context.Context, actor, slug, username string, role domain.StaffRole) (*domain.Cafe, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid staff role", map[string]any{"role": role})
	}
	if _, err := s.requireRole(ctx, slug, actor, auth.IsAdmin); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("user", map[string]any{"username": username})
		}
		return nil, apperrors.MapError(err)
	}

	err := s.cafes.AddStaff(ctx, slug, domain.StaffMember{Username: username, Role: role})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewConflict("user already on staff", map[string]any{"username": username})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventStaffChanged,
		CafeSlug: slug,
		Username: actor,
		Payload:  events.StaffChangedPayload{StaffUsername: username, Role: role},
	})
	return s.GetCafe(ctx, slug)
}

// ChangeStaffRole updates a roster entry's role; admin only. An admin
// cannot demote themselves below admin, so a café always keeps one.
func (s *CafeService) ChangeStaffRole(ctx context.Context, actor, slug, username string, role domain.StaffRole) (*domain.Cafe, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid staff role", map[string]any{"role": role})
	}
	cafe, err := s.requireRole(ctx, slug, actor, auth.IsAdmin)
	if err != nil {
		return nil, err
	}
	if actor == username && role != domain.StaffRoleAdmin && adminCount(cafe) <= 1 {
		return nil, apperrors.NewConflict("cannot demote the last admin", nil)
	}

	if err := s.cafes.UpdateStaffRole(ctx, slug, username, role); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("staff member", map[string]any{"username": username})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventStaffChanged,
		CafeSlug: slug,
		Username: actor,
		Payload:  events.StaffChangedPayload{StaffUsername: username, Role: role},
	})
	return s.GetCafe(ctx, slug)
}

// RemoveStaff deletes a roster entry; admin only.
func (s *CafeService) RemoveStaff(ctx context.Context, actor, slug, username string) error {
	cafe, err := s.requireRole(ctx, slug, actor, auth.IsAdmin)
	if err != nil {
		return err
	}
	if role, ok := auth.ResolveRole(cafe, username); !ok {
		return apperrors.NewNotFound("staff member", map[string]any{"username": username})
	} else if role == domain.StaffRoleAdmin && adminCount(cafe) <= 1 {
		return apperrors.NewConflict("cannot remove the last admin", nil)
	}

	if err := s.cafes.RemoveStaff(ctx, slug, username); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventStaffChanged,
		CafeSlug: slug,
		Username: actor,
		Payload:  events.StaffChangedPayload{StaffUsername: username, Removed: true},
	})
	return nil
}

// AddMenuItem appends a menu item; admin only.
func (s *CafeService) AddMenuItem(ctx context.Context, actor, slug string, input MenuItemInput) (*domain.MenuItem, error) {
	cafe, err := s.requireRole(ctx, slug, actor, auth.IsAdmin)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" || input.Price < 0 {
		return nil, apperrors.NewValidationError("item name required and price must be non-negative", nil)
	}

	item := domain.MenuItem{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		InStock:     input.InStock,
		Options:     input.Options,
	}
	cafe.Menu = append(cafe.Menu, item)
	if err := s.cafes.Update(ctx, cafe); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventMenuChanged,
		CafeSlug: slug,
		Username: actor,
		Payload:  events.MenuChangedPayload{ItemID: item.ID, ItemName: item.Name},
	})
	return &item, nil
}

// UpdateMenuItem rewrites a menu item; admin only.
func (s *CafeService) UpdateMenuItem(ctx context.Context, actor, slug, itemID string, input MenuItemInput) (*domain.MenuItem, error) {
	cafe, err := s.requireRole(ctx, slug, actor, auth.IsAdmin)
	if err != nil {
		return nil, err
	}
	item, ok := cafe.MenuItemByID(itemID)
	if !ok {
		return nil, apperrors.NewNotFound("menu item", map[string]any{"item_id": itemID})
	}

	if input.Name != "" {
		item.Name = strings.TrimSpace(input.Name)
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.Category != "" {
		item.Category = input.Category
	}
	if input.Price >= 0 {
		item.Price = input.Price
	}
	item.InStock = input.InStock
	if input.Options != nil {
		item.Options = input.Options
	}
	if err := s.cafes.Update(ctx, cafe); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventMenuChanged,
		CafeSlug: slug,
		Username: actor,
		Payload:  events.MenuChangedPayload{ItemID: item.ID, ItemName: item.Name},
	})
	return item, nil
}

// SetMenuItemStock toggles availability; member-or-above. Volunteers
// handle the counter, so stock flips do not require the admin role.
func (s *CafeService) SetMenuItemStock(ctx context.Context, actor, slug, itemID string, inStock bool) (*domain.MenuItem, error) {
	cafe, err := s.requireRole(ctx, slug, actor, auth.HasStaffAccess)
	if err != nil {
		return nil, err
	}
	item, ok := cafe.MenuItemByID(itemID)
	if !ok {
		return nil, apperrors.NewNotFound("menu item", map[string]any{"item_id": itemID})
	}

	item.InStock = inStock
	if err := s.cafes.Update(ctx, cafe); err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// RemoveMenuItem deletes a menu item; admin only.
func (s *CafeService) RemoveMenuItem(ctx context.Context, actor, slug, itemID string) error {
	cafe, err := s.requireRole(ctx, slug, actor, auth.IsAdmin)
	if err != nil {
		return err
	}

	for i := range cafe.Menu {
		if cafe.Menu[i].ID == itemID {
			name := cafe.Menu[i].Name
			cafe.Menu = append(cafe.Menu[:i], cafe.Menu[i+1:]...)
			if err := s.cafes.Update(ctx, cafe); err != nil {
				return apperrors.MapError(err)
			}
			s.publish(ctx, events.Event{
				Type:     events.EventMenuChanged,
				CafeSlug: slug,
				Username: actor,
				Payload:  events.MenuChangedPayload{ItemID: itemID, ItemName: name, Removed: true},
			})
			return nil
		}
	}
	return apperrors.NewNotFound("menu item", map[string]any{"item_id": itemID})
}

func (s *CafeService) requireRole(ctx context.Context, slug, actor string, allowed func(*domain.Cafe, string) bool) (*domain.Cafe, error) {
	cafe, err := s.cafes.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("cafe", map[string]any{"slug": slug})
		}
		return nil, apperrors.MapError(err)
	}
	if !allowed(cafe, actor) {
		return nil, apperrors.NewForbidden("insufficient role")
	}
	return cafe, nil
}

func adminCount(cafe *domain.Cafe) int {
	count := 0
	for _, entry := range cafe.Staff {
		if entry.Role == domain.StaffRoleAdmin {
			count++
		}
	}
	return count
}

func (s *CafeService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
