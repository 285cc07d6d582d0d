package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
)

func rosterCafe(staff ...domain.StaffMember) *domain.Cafe {
	return &domain.Cafe{Slug: "c1", Name: "Café Test", Staff: staff}
}

func TestResolveRole(t *testing.T) {
	cafe := rosterCafe(
		domain.StaffMember{Username: "alice", Role: domain.StaffRoleAdmin},
		domain.StaffMember{Username: "bob", Role: domain.StaffRoleMember},
	)

	role, ok := ResolveRole(cafe, "alice")
	assert.True(t, ok)
	assert.Equal(t, domain.StaffRoleAdmin, role)

	role, ok = ResolveRole(cafe, "bob")
	assert.True(t, ok)
	assert.Equal(t, domain.StaffRoleMember, role)

	_, ok = ResolveRole(cafe, "carol")
	assert.False(t, ok)
}

func TestResolveRoleFailsClosed(t *testing.T) {
	cafe := rosterCafe(domain.StaffMember{Username: "alice", Role: domain.StaffRoleAdmin})

	_, ok := ResolveRole(nil, "alice")
	assert.False(t, ok)

	_, ok = ResolveRole(cafe, "")
	assert.False(t, ok)

	assert.False(t, IsAdmin(nil, "alice"))
	assert.False(t, IsMember(nil, "alice"))
	assert.False(t, HasStaffAccess(nil, "alice"))
}

func TestResolveRoleUnrecognizedRole(t *testing.T) {
	cafe := rosterCafe(
		domain.StaffMember{Username: "eve", Role: "SUPERUSER"},
		domain.StaffMember{Username: "mallory", Role: ""},
	)

	_, ok := ResolveRole(cafe, "eve")
	assert.False(t, ok)
	_, ok = ResolveRole(cafe, "mallory")
	assert.False(t, ok)

	assert.False(t, IsAdmin(cafe, "eve"))
	assert.False(t, IsMember(cafe, "eve"))
}

func TestResolveRoleFirstMatchWins(t *testing.T) {
	// Duplicate entries are prevented by the data layer; if one slips
	// through, resolution still deterministically takes the first.
	cafe := rosterCafe(
		domain.StaffMember{Username: "alice", Role: domain.StaffRoleMember},
		domain.StaffMember{Username: "alice", Role: domain.StaffRoleAdmin},
	)

	role, ok := ResolveRole(cafe, "alice")
	assert.True(t, ok)
	assert.Equal(t, domain.StaffRoleMember, role)
}

func TestRoleExclusivity(t *testing.T) {
	cafe := rosterCafe(
		domain.StaffMember{Username: "alice", Role: domain.StaffRoleAdmin},
		domain.StaffMember{Username: "bob", Role: domain.StaffRoleMember},
	)

	for _, username := range []string{"alice", "bob", "carol", ""} {
		assert.False(t, IsAdmin(cafe, username) && IsMember(cafe, username),
			"IsAdmin and IsMember must never both hold for %q", username)
	}
}

func TestAdminScenario(t *testing.T) {
	cafe := rosterCafe(domain.StaffMember{Username: "alice", Role: domain.StaffRoleAdmin})

	assert.True(t, IsAdmin(cafe, "alice"))
	assert.False(t, IsMember(cafe, "alice"))
	assert.False(t, IsAdmin(cafe, "bob"))
	assert.True(t, HasStaffAccess(cafe, "alice"))
	assert.False(t, HasStaffAccess(cafe, "bob"))
}

func TestResolveRoleIdempotent(t *testing.T) {
	cafe := rosterCafe(domain.StaffMember{Username: "alice", Role: domain.StaffRoleAdmin})

	firstRole, firstOK := ResolveRole(cafe, "alice")
	secondRole, secondOK := ResolveRole(cafe, "alice")
	assert.Equal(t, firstRole, secondRole)
	assert.Equal(t, firstOK, secondOK)
}
