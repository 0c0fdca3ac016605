package constants

import "slices"

const (
	SubmitRequests = "submit_requests"
	ViewHoldings   = "view_holdings"
	ReviewRequests = "review_requests"
	ManageHoldings = "manage_holdings"
)

// PermissionRoles maps each permission to roles allowed to perform it.
var PermissionRoles = map[string][]string{
	SubmitRequests: {Investor, Admin},
	ViewHoldings:   {Investor, Admin},
	ReviewRequests: {Admin},
	ManageHoldings: {Admin},
}

// AllowedRole reports whether role holds permission. Unknown permissions allow nobody.
func AllowedRole(permission, role string) bool {
	return slices.Contains(PermissionRoles[permission], role)
}
