package domain

import "fmt"

// Role is the closed set of authorization roles a user can hold.
// Any value outside this set is rejected at the boundary.
type Role string

const (
	// RoleUser is the default role for registered users.
	RoleUser Role = "user"

	// RoleAdmin grants unconditional access to every resource.
	RoleAdmin Role = "admin"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
