// Package identity holds the caller identity shared by every module: the closed set
// of roles, the authenticated principal and the middleware that establishes it.
package identity

import (
	"fmt"
	"strings"
)

// Role is a user's role in the marketplace
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleDealer Role = "DEALER"
	RoleSeller Role = "SELLER"
	RoleBuyer  Role = "BUYER"
)

// Roles lists every role
var Roles = []Role{RoleAdmin, RoleDealer, RoleSeller, RoleBuyer}

// ParseRole converts a case-insensitive role name
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleDealer, RoleSeller, RoleBuyer:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
