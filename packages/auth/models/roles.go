package models

// Roles carried by league tokens.
const (
	// RoleAdmin may run every league operation.
	RoleAdmin = "admin"
	// RoleWeek may report results of the single week named in the token.
	RoleWeek = "week"
)
