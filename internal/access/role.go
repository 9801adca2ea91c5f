// Package access holds the authorization rules shared by the resource services:
// the role enumeration, the per-operation role gate and the ownership policy.
package access

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the coarse privilege level of a user.
type Role string

const (
	RoleGuest Role = "GUEST"
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ErrUnknownRole is returned by ParseRole for values outside the enumeration.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole converts a case-insensitive role code into a Role.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleGuest:
		return RoleGuest, nil
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, value)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleUser, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Actor is the authenticated identity performing a request.
type Actor struct {
	ID   int64
	Role Role
}

// IsAdmin reports whether the actor holds the elevated role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
