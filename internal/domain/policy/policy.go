// Package policy decides which booking actions an actor may perform.
// It is pure: the caller supplies the booking being acted on.
package policy

import (
	"fmt"

	"wrenchway-api/internal/apperror"
	"wrenchway-api/internal/domain/entity"
)

type Action string

const (
	ActionView              Action = "view"
	ActionCreate            Action = "create"
	ActionCancel            Action = "cancel"
	ActionUpdateStatus      Action = "update_status"
	ActionAssignTechnician  Action = "assign_technician"
	ActionReschedule        Action = "reschedule"
	ActionManageTechnicians Action = "manage_technicians"
)

var allActions = []Action{
	ActionView, ActionCreate, ActionCancel, ActionUpdateStatus,
	ActionAssignTechnician, ActionReschedule, ActionManageTechnicians,
}

// ActionSet is the set of actions an actor may perform on one booking.
type ActionSet map[Action]struct{}

func newActionSet(actions ...Action) ActionSet {
	set := make(ActionSet, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

// Permitted returns the actions actor may perform on booking. A nil booking
// asks about actions that are not scoped to an existing booking.
func Permitted(actor entity.Actor, booking *entity.Booking) ActionSet {
	switch actor.Role {
	case entity.RoleAdmin:
		return newActionSet(allActions...)

	case entity.RoleTechnician:
		if booking != nil && booking.AssignedTo(actor.ID) {
			return newActionSet(ActionView, ActionUpdateStatus)
		}
		return newActionSet()

	case entity.RoleCustomer:
		if booking == nil {
			return newActionSet(ActionCreate)
		}
		if booking.OwnedBy(actor.ID) {
			return newActionSet(ActionView, ActionCreate, ActionCancel, ActionReschedule)
		}
		return newActionSet()
	}

	return newActionSet()
}

// Authorize fails with a Forbidden error when actor may not perform action.
func Authorize(actor entity.Actor, action Action, booking *entity.Booking) error {
	if Permitted(actor, booking).Has(action) {
		return nil
	}
	return fmt.Errorf("%s may not %s this booking: %w", roleLabel(actor.Role), action, apperror.ErrForbidden)
}

// ActionForStatus is the action a move to target requires.
func ActionForStatus(target entity.BookingStatus) Action {
	if target == entity.BookingStatusCancelled {
		return ActionCancel
	}
	return ActionUpdateStatus
}

func roleLabel(r entity.Role) string {
	if r.IsValid() {
		return string(r)
	}
	return "unknown role"
}
