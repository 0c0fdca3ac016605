package constants

import "slices"

// Token roles. Investors act on their own requests and holdings; admins review and assign.
const (
	Admin    = "admin"
	Investor = "investor"
)

// ValidRoles is the set of roles a bearer token may carry.
var ValidRoles = []string{Investor, Admin}

// IsValidRole reports whether role may appear in a token.
func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, role)
}
