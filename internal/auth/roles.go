package auth

import (
	"github.com/ceduni/cafe-sans-fil-sub001/internal/domain"
)

// ResolveRole looks up the roster entry whose username matches the
// given identity and returns its role. A nil café, empty username,
// missing entry, or a role outside the closed enum all yield ok=false:
// unresolvable identities never receive access. Resolution takes the
// first match; roster usernames are unique by data-layer invariant.
func ResolveRole(cafe *domain.Cafe, username string) (domain.StaffRole, bool) {
	if cafe == nil || username == "" {
		return "", false
	}
	for _, entry := range cafe.Staff {
		if entry.Username == username {
			if !entry.Role.Valid() {
				return "", false
			}
			return entry.Role, true
		}
	}
	return "", false
}

// IsAdmin reports whether the identity holds the admin role at the café.
func IsAdmin(cafe *domain.Cafe, username string) bool {
	role, ok := ResolveRole(cafe, username)
	return ok && role == domain.StaffRoleAdmin
}

// IsMember reports whether the identity holds the member role at the
// café. Strict: admins are not members.
func IsMember(cafe *domain.Cafe, username string) bool {
	role, ok := ResolveRole(cafe, username)
	return ok && role == domain.StaffRoleMember
}

// HasStaffAccess reports member-or-above access at the café.
func HasStaffAccess(cafe *domain.Cafe, username string) bool {
	return IsMember(cafe, username) || IsAdmin(cafe, username)
}
