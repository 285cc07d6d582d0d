package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/auth"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
	"github.com/ceduni/cafe-sans-fil-sub001/internal/repository"
	apperrors "github.com/ceduni/cafe-sans-fil-sub001/pkg/util"
)

// EventService coordinates café event listings and interactions.
type EventService struct {
	events repository.EventRepository
	cafes  repository.CafeRepository
	now    func() time.Time
}

// NewEventService constructs the service.
func NewEventService(eventRepo repository.EventRepository, cafeRepo repository.CafeRepository, now func() time.Time) *EventService {
	if now == nil {
		now = time.Now
	}
	return &EventService{events: eventRepo, cafes: cafeRepo, now: now}
}

// ListEvents returns events, optionally scoped to a café; past events
// are excluded unless includePast is set.
func (s *EventService) ListEvents(ctx context.Context, cafeSlug *string, includePast bool, limit int) ([]domain.Event, error) {
	var after *time.Time
	if !includePast {
		cutoff := s.now()
		after = &cutoff
	}
	return s.events.List(ctx, cafeSlug, after, limit)
}

// GetEvent fetches a single event.
func (s *EventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

// CreateEvent publishes a café event; admin only.
func (s *EventService) CreateEvent(ctx context.Context, actor, cafeSlug, title, description string, startsAt, endsAt time.Time) (*domain.Event, error) {
	cafe, err := s.cafes.GetBySlug(ctx, cafeSlug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("cafe", map[string]any{"slug": cafeSlug})
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.IsAdmin(cafe, actor) {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if !endsAt.After(startsAt) {
		return nil, apperrors.NewValidationError("event must end after it starts", nil)
	}

	event := &domain.Event{
		CafeSlug:     cafeSlug,
		Title:        strings.TrimSpace(title),
		Description:  description,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		Interactions: make(map[domain.InteractionKind][]string),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

// ToggleInteraction flips the caller's like/attend state on an event
// and returns the updated event. Each kind's count moves on its own;
// toggling one never rewrites the others.
func (s *EventService) ToggleInteraction(ctx context.Context, username, eventID string, kind domain.InteractionKind) (*domain.Event, bool, error) {
	if !kind.Valid() {
		return nil, false, apperrors.NewValidationError("unknown interaction kind", map[string]any{"kind": kind})
	}
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, false, err
	}

	active := event.ToggleInteraction(kind, username)
	if err := s.events.Update(ctx, event); err != nil {
		return nil, false, apperrors.MapError(err)
	}
	return event, active, nil
}
