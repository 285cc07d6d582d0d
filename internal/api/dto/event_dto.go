package dto

import "time"

// EventCreateRequest payload.
type EventCreateRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

// EventResponse is the event projection with interaction counts.
type EventResponse struct {
	ID          string    `json:"id"`
	CafeSlug    string    `json:"cafe_slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Likes       int       `json:"likes"`
	Attendees   int       `json:"attendees"`
	Liked       bool      `json:"liked,omitempty"`
	Attending   bool      `json:"attending,omitempty"`
}
