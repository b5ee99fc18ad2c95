package entity

import "github.com/google/uuid"

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsTechnician() bool {
	return a.Role == RoleTechnician
}

func (a Actor) IsCustomer() bool {
	return a.Role == RoleCustomer
}
