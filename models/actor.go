package models

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleProvider || r == RoleAdmin
}

// Actor is the authenticated caller as resolved from the bearer token.
type Actor struct {
	ID   string
	Role Role
}
