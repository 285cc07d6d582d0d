package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleInteraction(t *testing.T) {
	event := &Event{Title: "Soirée jazz"}

	active := event.ToggleInteraction(InteractionLike, "alice")
	assert.True(t, active)
	assert.Equal(t, 1, event.InteractionCount(InteractionLike))

	active = event.ToggleInteraction(InteractionLike, "alice")
	assert.False(t, active)
	assert.Equal(t, 0, event.InteractionCount(InteractionLike))
}

func TestToggleInteractionKindsAreIndependent(t *testing.T) {
	// Toggling one kind must never rewrite the counts of another.
	event := &Event{Title: "Dégustation"}

	event.ToggleInteraction(InteractionLike, "alice")
	event.ToggleInteraction(InteractionLike, "bob")
	event.ToggleInteraction(InteractionAttend, "alice")

	assert.Equal(t, 2, event.InteractionCount(InteractionLike))
	assert.Equal(t, 1, event.InteractionCount(InteractionAttend))

	event.ToggleInteraction(InteractionAttend, "carol")
	assert.Equal(t, 2, event.InteractionCount(InteractionLike), "likes changed by an attend toggle")
	assert.Equal(t, 2, event.InteractionCount(InteractionAttend))

	assert.True(t, event.HasInteraction(InteractionLike, "bob"))
	assert.False(t, event.HasInteraction(InteractionAttend, "bob"))
}

func TestInteractionNilSafety(t *testing.T) {
	var event *Event
	assert.Equal(t, 0, event.InteractionCount(InteractionLike))
	assert.False(t, event.HasInteraction(InteractionLike, "alice"))
}
