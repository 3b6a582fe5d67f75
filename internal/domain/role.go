package domain

// User roles. New accounts always start as RoleUser.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var Roles = []string{RoleAdmin, RoleUser}
