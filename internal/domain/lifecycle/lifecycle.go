// Package lifecycle is the booking state machine. Every status change a
// booking goes through is validated here before it is persisted.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"wrenchway-api/internal/apperror"
	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/internal/domain/policy"
)

var transitions = map[entity.BookingStatus][]entity.BookingStatus{
	entity.BookingStatusPending: {
		entity.BookingStatusConfirmed,
		entity.BookingStatusInProgress,
		entity.BookingStatusCompleted,
		entity.BookingStatusCancelled,
	},
	entity.BookingStatusConfirmed: {
		entity.BookingStatusInProgress,
		entity.BookingStatusCompleted,
		entity.BookingStatusCancelled,
	},
	entity.BookingStatusInProgress: {
		entity.BookingStatusCompleted,
	},
}

var ErrUnknownStatus = fmt.Errorf("unknown booking status: %w", apperror.ErrInvalid)

// CanTransition reports whether the table allows from -> to.
func CanTransition(from, to entity.BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves b to target on behalf of actor. Authorization is checked
// before the transition table. b is only modified when nil is returned.
func Transition(b *entity.Booking, target entity.BookingStatus, actor entity.Actor, now time.Time) error {
	if !target.IsValid() {
		return ErrUnknownStatus
	}

	if err := policy.Authorize(actor, policy.ActionForStatus(target), b); err != nil {
		return err
	}

	if !CanTransition(b.Status, target) {
		return invalidTransition(b.Status, target)
	}

	if target.RequiresTechnician() && !b.HasTechnician() {
		return fmt.Errorf("booking has no technician assigned, cannot move to %s: %w", target, apperror.ErrInvalidTransition)
	}

	b.Status = target
	switch target {
	case entity.BookingStatusCompleted:
		stamp := now
		b.CompletedAt = &stamp
	case entity.BookingStatusCancelled:
		stamp := now
		b.CancelledAt = &stamp
	}

	return nil
}

// Assign sets the technician on b. A pending booking becomes confirmed;
// a confirmed booking keeps its status and changes technician.
// It returns false when technicianID already holds the confirmed booking.
func Assign(b *entity.Booking, technicianID uuid.UUID, actor entity.Actor) (bool, error) {
	if err := policy.Authorize(actor, policy.ActionAssignTechnician, b); err != nil {
		return false, err
	}

	switch b.Status {
	case entity.BookingStatusPending:
		if !CanTransition(b.Status, entity.BookingStatusConfirmed) {
			return false, invalidTransition(b.Status, entity.BookingStatusConfirmed)
		}
		tid := technicianID
		b.TechnicianID = &tid
		b.Status = entity.BookingStatusConfirmed
		return true, nil

	case entity.BookingStatusConfirmed:
		if b.AssignedTo(technicianID) {
			return false, nil
		}
		tid := technicianID
		b.TechnicianID = &tid
		return true, nil
	}

	return false, fmt.Errorf("cannot assign a technician to a %s booking: %w", b.Status, apperror.ErrInvalidTransition)
}

func invalidTransition(from, to entity.BookingStatus) error {
	if from.IsTerminal() {
		return fmt.Errorf("booking is already %s: %w", from, apperror.ErrInvalidTransition)
	}
	return fmt.Errorf("cannot move booking from %s to %s: %w", from, to, apperror.ErrInvalidTransition)
}
