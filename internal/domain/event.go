package domain

import "time"

// InteractionKind enumerates ways a user can engage with a café event.
type InteractionKind string

const (
	InteractionLike   InteractionKind = "LIKE"
	InteractionAttend InteractionKind = "ATTEND"
)

// Valid reports whether the kind is part of the closed enum.
func (k InteractionKind) Valid() bool {
	return k == InteractionLike || k == InteractionAttend
}

// Event is a café-hosted happening users can like or attend.
// Interactions maps each kind to the usernames who toggled it on;
// counts per kind stay independent of one another.
type Event struct {
	ID           string                       `bson:"_id,omitempty" json:"id"`
	CafeSlug     string                       `bson:"cafe_slug" json:"cafe_slug"`
	Title        string                       `bson:"title" json:"title"`
	Description  string                       `bson:"description" json:"description"`
	StartsAt     time.Time                    `bson:"starts_at" json:"starts_at"`
	EndsAt       time.Time                    `bson:"ends_at" json:"ends_at"`
	Interactions map[InteractionKind][]string `bson:"interactions" json:"interactions"`
	CreatedAt    time.Time                    `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time                    `bson:"updated_at" json:"updated_at"`
}

// InteractionCount returns how many users toggled the given kind on.
func (e *Event) InteractionCount(kind InteractionKind) int {
	if e == nil || e.Interactions == nil {
		return 0
	}
	return len(e.Interactions[kind])
}

// HasInteraction reports whether the user toggled the given kind on.
func (e *Event) HasInteraction(kind InteractionKind, username string) bool {
	if e == nil || e.Interactions == nil {
		return false
	}
	for _, name := range e.Interactions[kind] {
		if name == username {
			return true
		}
	}
	return false
}

// ToggleInteraction flips the user's engagement for the given kind and
// reports the resulting state. Other kinds are never touched.
func (e *Event) ToggleInteraction(kind InteractionKind, username string) bool {
	if e.Interactions == nil {
		e.Interactions = make(map[InteractionKind][]string)
	}
	names := e.Interactions[kind]
	for i, name := range names {
		if name == username {
			e.Interactions[kind] = append(names[:i], names[i+1:]...)
			return false
		}
	}
	e.Interactions[kind] = append(names, username)
	return true
}
