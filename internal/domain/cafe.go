package domain

import (
	"time"
)

// StaffRole enumerates café roster roles.
type StaffRole string

const (
	StaffRoleAdmin  StaffRole = "ADMIN"
	StaffRoleMember StaffRole = "MEMBER"
)

// Valid reports whether the role is part of the closed enum.
func (r StaffRole) Valid() bool {
	return r == StaffRoleAdmin || r == StaffRoleMember
}

// StaffMember is a roster entry linking a user to a café role.
// Username is unique within a café's roster; the data layer enforces it.
type StaffMember struct {
	Username string    `bson:"username" json:"username"`
	Role     StaffRole `bson:"role" json:"role"`
}

// OpeningShift is a single open block on a given weekday.
type OpeningShift struct {
	Day   time.Weekday `bson:"day" json:"day"`
	Open  string       `bson:"open" json:"open"`   // "09:00"
	Close string       `bson:"close" json:"close"` // "17:30"
}

// MenuItemOption is a configurable add-on carrying an extra fee.
type MenuItemOption struct {
	Type  string  `bson:"type" json:"type"`
	Value string  `bson:"value" json:"value"`
	Fee   float64 `bson:"fee" json:"fee"`
}

// MenuItem is a sellable item on a café's menu.
type MenuItem struct {
	ID          string           `bson:"id" json:"id"`
	Name        string           `bson:"name" json:"name"`
	Description string           `bson:"description" json:"description"`
	Category    string           `bson:"category" json:"category"`
	Price       float64          `bson:"price" json:"price"`
	InStock     bool             `bson:"in_stock" json:"in_stock"`
	Options     []MenuItemOption `bson:"options" json:"options"`
}

// Cafe is the aggregate for a campus café: roster and menu are owned
// by the café and mutated only through staff-management operations.
type Cafe struct {
	ID           string         `bson:"_id,omitempty" json:"id"`
	Slug         string         `bson:"slug" json:"slug"`
	Name         string         `bson:"name" json:"name"`
	Description  string         `bson:"description" json:"description"`
	Location     string         `bson:"location" json:"location"`
	Staff        []StaffMember  `bson:"staff" json:"staff"`
	Menu         []MenuItem     `bson:"menu" json:"menu"`
	OpeningHours []OpeningShift `bson:"opening_hours" json:"opening_hours"`
	CreatedAt    time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at" json:"updated_at"`
}

// MenuItemByID returns the menu item with the given id.
func (c *Cafe) MenuItemByID(id string) (*MenuItem, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Menu {
		if c.Menu[i].ID == id {
			return &c.Menu[i], true
		}
	}
	return nil, false
}

// IsOpenAt reports whether any opening shift covers the given instant.
// Shift bounds are compared on the "15:04" wall clock of t's location.
func (c *Cafe) IsOpenAt(t time.Time) bool {
	if c == nil {
		return false
	}
	clock := t.Format("15:04")
	for _, shift := range c.OpeningHours {
		if shift.Day != t.Weekday() {
			continue
		}
		if shift.Open <= clock && clock < shift.Close {
			return true
		}
	}
	return false
}
