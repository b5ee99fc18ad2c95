package usecase

import (
	"context"
	"time"

	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/internal/domain/repository"
	"wrenchway-api/internal/service"
	"wrenchway-api/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AssignmentUsecase interface {
	AssignTechnician(ctx context.Context, actor entity.Actor, bookingID, technicianID uuid.UUID) (*dto.BookingResponse, error)
}

type assignmentUsecase struct {
	log          *logrus.Logger
	bookingRepo  repository.BookingRepository
	publisher    service.EventPublisher
	clock        clock.Clock
	assigner     *technicianAssigner
	writer       *bookingWriter
	projector    *bookingProjector
	queryTimeout time.Duration
}

// NewAssignmentUsecase builds the assignment coordinator. bookingLocks must
// be the locker the booking use case writes under; slotLocks guards a
// technician's time slot and is shared by every instance of the API.
func NewAssignmentUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	serviceRepo repository.ServiceRepository,
	auditService service.AuditService,
	publisher service.EventPublisher,
	bookingLocks service.Locker,
	slotLocks service.Locker,
	clk clock.Clock,
	queryTimeout time.Duration,
) AssignmentUsecase {
	return &assignmentUsecase{
		log:          log,
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		clock:        clk,
		assigner:     newTechnicianAssigner(log, bookingRepo, userRepo, slotLocks),
		writer:       newBookingWriter(log, tx, bookingRepo, auditService, bookingLocks, clk),
		projector:    newBookingProjector(userRepo, serviceRepo),
		queryTimeout: queryTimeout,
	}
}

// AssignTechnician assigns technicianID to the booking and confirms it.
//
// Flow:
//  1. Resolve booking and technician, then check the actor is an admin
//  2. Take the slot lock for technician + date + time
//  3. Inside the write transaction: row-lock the technician, apply the
//     assignment and re-check availability against committed bookings
//  4. Publish booking.confirmed once committed
func (u *assignmentUsecase) AssignTechnician(ctx context.Context, actor entity.Actor, bookingID, technicianID uuid.UUID) (*dto.BookingResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	booking, err := u.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	release, err := u.assigner.prepare(ctx, actor, booking, technicianID)
	if err != nil {
		return nil, err
	}
	defer release()

	updated, changed, err := u.writer.apply(ctx, actor, bookingID, entity.AuditActionBookingAssign, func(txCtx context.Context, b *entity.Booking) (bool, error) {
		return u.assigner.apply(txCtx, actor, b, booking, technicianID)
	})
	if err != nil {
		if !isDomainError(err) {
			u.log.Warnf("Failed to assign technician %s to booking %s: %+v", technicianID, bookingID, err)
		}
		return nil, err
	}

	if changed {
		u.log.Infof("Technician assigned: booking=%s, technician=%s", bookingID, technicianID)
		publishEvent(ctx, u.log, u.publisher, service.NewBookingEvent(service.EventBookingConfirmed, updated, actor, u.clock.Now()))
	}

	return u.projector.project(ctx, updated)
}
