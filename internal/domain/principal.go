package domain

import "slices"

// Principal is the authenticated caller of a single request. It is built by
// the request authenticator from a verified token and handed explicitly to
// every service operation that needs the caller's identity.
type Principal struct {
	Email string
	Roles []Role
}

// Anonymous reports whether p carries no identity.
func (p Principal) Anonymous() bool {
	return p.Email == ""
}

// HasRole reports whether p was granted role r.
func (p Principal) HasRole(r Role) bool {
	return slices.Contains(p.Roles, r)
}

// HasAnyRole reports whether p was granted at least one of roles.
func (p Principal) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}

// IsAdmin is shorthand for HasRole(RoleAdmin).
func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}
