package entity

import "fmt"

// Role represents a user role in the system
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleTechnician || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
