package usecase

import (
	"context"

	"wrenchway-api/internal/domain/availability"
	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/internal/domain/lifecycle"
	"wrenchway-api/internal/domain/policy"
	"wrenchway-api/internal/domain/repository"
	"wrenchway-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// technicianAssigner holds the assignment steps shared by AssignTechnician
// and a status update that carries a technician, so both run the assignment
// inside their own write transaction.
type technicianAssigner struct {
	log         *logrus.Logger
	bookingRepo repository.BookingRepository
	userRepo    repository.UserRepository
	slotLocks   service.Locker
}

func newTechnicianAssigner(log *logrus.Logger, bookingRepo repository.BookingRepository, userRepo repository.UserRepository, slotLocks service.Locker) *technicianAssigner {
	return &technicianAssigner{
		log:         log,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		slotLocks:   slotLocks,
	}
}

// prepare checks the technician exists and the actor may assign, then takes
// the slot lock for the booking's current schedule.
func (a *technicianAssigner) prepare(ctx context.Context, actor entity.Actor, booking *entity.Booking, technicianID uuid.UUID) (func(), error) {
	technician, err := a.userRepo.FindByID(ctx, technicianID)
	if err != nil {
		a.log.Warnf("Failed to find technician %s: %+v", technicianID, err)
		return nil, err
	}
	if technician == nil || !technician.IsTechnician() {
		return nil, ErrTechnicianNotFound
	}

	if err := policy.Authorize(actor, policy.ActionAssignTechnician, booking); err != nil {
		return nil, err
	}

	release, err := acquireLock(ctx, a.slotLocks, "slot:"+booking.SlotKey(technicianID), ErrSlotLocked)
	if err != nil {
		a.log.Warnf("Failed to lock slot for booking %s: %+v", booking.ID, err)
		return nil, err
	}
	return release, nil
}

// apply assigns technicianID to b inside the write transaction. locked is
// the booking as seen when the slot lock was taken.
func (a *technicianAssigner) apply(txCtx context.Context, actor entity.Actor, b, locked *entity.Booking, technicianID uuid.UUID) (bool, error) {
	if !b.ScheduledDate.Equal(locked.ScheduledDate) || b.ScheduledTime != locked.ScheduledTime {
		return false, ErrSlotChanged
	}

	technician, err := a.userRepo.LockByID(txCtx, technicianID, false)
	if err != nil {
		return false, err
	}
	if technician == nil || !technician.IsTechnician() {
		return false, ErrTechnicianNotFound
	}

	changed, err := lifecycle.Assign(b, technicianID, actor)
	if err != nil || !changed {
		return false, err
	}

	from, to := availability.DayWindow(b.ScheduledDate)
	active, err := a.bookingRepo.FindActiveInWindow(txCtx, from, to, b.ScheduledTime)
	if err != nil {
		return false, err
	}
	if !availability.IsAvailable(technicianID, active, b.ScheduledDate, b.ScheduledTime, b.ID) {
		return false, ErrTechnicianBusy
	}

	return true, nil
}
