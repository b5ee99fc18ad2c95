package usecase

import (
	"context"
	"time"

	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/domain/availability"
	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/internal/domain/lifecycle"
	"wrenchway-api/internal/domain/policy"
	"wrenchway-api/internal/domain/repository"
	"wrenchway-api/internal/service"
	"wrenchway-api/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxPageSize = 100

type BookingUsecase interface {
	CreateBooking(ctx context.Context, actor entity.Actor, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	ListBookings(ctx context.Context, actor entity.Actor, query dto.BookingListQuery, page, limit int) ([]dto.BookingResponse, int64, error)
	ListAssignedBookings(ctx context.Context, actor entity.Actor, page, limit int) ([]dto.BookingResponse, int64, error)
	GetBooking(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	RescheduleBooking(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.BookingResponse, error)
}

type bookingUsecase struct {
	log             *logrus.Logger
	tx              repository.Transactor
	bookingRepo     repository.BookingRepository
	userRepo        repository.UserRepository
	auditService    service.AuditService
	publisher       service.EventPublisher
	assigner        *technicianAssigner
	clock           clock.Clock
	writer          *bookingWriter
	services        *serviceLookup
	projector       *bookingProjector
	queryTimeout    time.Duration
	defaultPageSize int
}

func NewBookingUsecase(
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
	defaultPageSize int,
) BookingUsecase {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &bookingUsecase{
		log:             log,
		tx:              tx,
		bookingRepo:     bookingRepo,
		userRepo:        userRepo,
		auditService:    auditService,
		publisher:       publisher,
		assigner:        newTechnicianAssigner(log, bookingRepo, userRepo, slotLocks),
		clock:           clk,
		writer:          newBookingWriter(log, tx, bookingRepo, auditService, bookingLocks, clk),
		services:        newServiceLookup(serviceRepo),
		projector:       newBookingProjector(userRepo, serviceRepo),
		queryTimeout:    queryTimeout,
		defaultPageSize: defaultPageSize,
	}
}

// CreateBooking places a pending booking priced at the service's base price.
// Customers always book for themselves; admins name the customer.
func (u *bookingUsecase) CreateBooking(ctx context.Context, actor entity.Actor, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	customerID := actor.ID
	if req.CustomerID != "" {
		parsed, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, ErrInvalidID
		}
		customerID = parsed
	} else if actor.IsAdmin() {
		return nil, ErrCustomerRequired
	}

	if err := policy.Authorize(actor, policy.ActionCreate, &entity.Booking{CustomerID: customerID}); err != nil {
		return nil, err
	}

	scheduledDate, err := u.parseSchedule(req.ScheduledDate, req.ScheduledTime)
	if err != nil {
		return nil, err
	}

	urgency, err := entity.ParseUrgency(req.Urgency)
	if err != nil {
		return nil, ErrInvalidUrgency
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, ErrInvalidID
	}
	svc, err := u.services.get(ctx, serviceID)
	if err != nil {
		u.log.Warnf("Failed to find service %s: %+v", serviceID, err)
		return nil, err
	}
	if svc == nil || !svc.IsActive {
		return nil, ErrServiceNotFound
	}

	if customerID != actor.ID {
		customer, err := u.userRepo.FindByID(ctx, customerID)
		if err != nil {
			u.log.Warnf("Failed to find customer %s: %+v", customerID, err)
			return nil, err
		}
		if customer == nil || customer.Role != entity.RoleCustomer {
			return nil, ErrCustomerNotFound
		}
	}

	now := u.clock.Now()
	booking := &entity.Booking{
		ID:              uuid.New(),
		CustomerID:      customerID,
		ServiceID:       svc.ID,
		Status:          entity.BookingStatusPending,
		ScheduledDate:   scheduledDate,
		ScheduledTime:   req.ScheduledTime,
		CustomerAddress: req.CustomerAddress,
		CustomerPhone:   req.CustomerPhone,
		Notes:           req.Notes,
		Urgency:         urgency,
		TotalAmount:     svc.BasePrice,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = u.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := u.bookingRepo.Create(txCtx, booking); err != nil {
			u.log.Warnf("Failed to create booking: %+v", err)
			return err
		}

		actorID := actor.ID
		return u.auditService.LogCreate(txCtx, &actorID, entity.AuditActionBookingCreate, "booking", booking.ID.String(), booking)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Booking created: id=%s, customer=%s, service=%s", booking.ID, booking.CustomerID, booking.ServiceID)
	publishEvent(ctx, u.log, u.publisher, service.NewBookingEvent(service.EventBookingCreated, booking, actor, now))

	return u.projector.project(ctx, booking)
}

// ListBookings scopes the listing to what actor may view. Customers see their
// own bookings, technicians their assignments and admins everything.
func (u *bookingUsecase) ListBookings(ctx context.Context, actor entity.Actor, query dto.BookingListQuery, page, limit int) ([]dto.BookingResponse, int64, error) {
	filter := entity.BookingFilter{}

	if query.Status != "" {
		status, err := entity.ParseBookingStatus(query.Status)
		if err != nil {
			return nil, 0, ErrInvalidStatus
		}
		filter.Status = &status
	}
	if query.DateFrom != "" {
		from, err := entity.ParseScheduledDate(query.DateFrom)
		if err != nil {
			return nil, 0, ErrInvalidDate
		}
		filter.DateFrom = &from
	}
	if query.DateTo != "" {
		to, err := entity.ParseScheduledDate(query.DateTo)
		if err != nil {
			return nil, 0, ErrInvalidDate
		}
		filter.DateTo = &to
	}

	switch actor.Role {
	case entity.RoleAdmin:
		filter.CustomerID = query.CustomerID
		filter.TechnicianID = query.TechnicianID
	case entity.RoleCustomer:
		self := actor.ID
		filter.CustomerID = &self
	case entity.RoleTechnician:
		self := actor.ID
		filter.TechnicianID = &self
	default:
		return nil, 0, policy.Authorize(actor, policy.ActionView, nil)
	}

	return u.list(ctx, filter, page, limit)
}

// ListAssignedBookings returns the technician's own bookings, soonest first.
func (u *bookingUsecase) ListAssignedBookings(ctx context.Context, actor entity.Actor, page, limit int) ([]dto.BookingResponse, int64, error) {
	if !actor.IsTechnician() {
		return nil, 0, policy.Authorize(actor, policy.ActionUpdateStatus, nil)
	}

	self := actor.ID
	return u.list(ctx, entity.BookingFilter{TechnicianID: &self, SortByScheduleAsc: true}, page, limit)
}

func (u *bookingUsecase) list(ctx context.Context, filter entity.BookingFilter, page, limit int) ([]dto.BookingResponse, int64, error) {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	page, limit = u.normalizePage(page, limit)

	bookings, total, err := u.bookingRepo.FindAll(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find bookings: %+v", err)
		return nil, 0, err
	}

	responses, err := u.projector.projectAll(ctx, bookings)
	if err != nil {
		u.log.Warnf("Failed to load booking relations: %+v", err)
		return nil, 0, err
	}

	return responses, total, nil
}

func (u *bookingUsecase) GetBooking(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.BookingResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	booking, err := u.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(actor, policy.ActionView, booking); err != nil {
		return nil, err
	}

	return u.projector.project(ctx, booking)
}

// UpdateStatus moves a booking to req.Status. A technician_id in the request
// is assigned in the same transaction as the status change, so a rejected
// status leaves the booking untouched. A confirmed target that the
// assignment already reached is not applied twice.
func (u *bookingUsecase) UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error) {
	target, err := entity.ParseBookingStatus(req.Status)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	var technicianID *uuid.UUID
	if req.TechnicianID != nil && *req.TechnicianID != "" {
		parsed, err := uuid.Parse(*req.TechnicianID)
		if err != nil {
			return nil, ErrInvalidID
		}
		technicianID = &parsed
	}

	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	existing, err := u.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ActionUpdateStatus, existing); err != nil {
		return nil, err
	}

	if technicianID != nil {
		release, err := u.assigner.prepare(ctx, actor, existing, *technicianID)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	var (
		previous       entity.BookingStatus
		afterAssign    entity.BookingStatus
		assignedChange bool
	)
	updated, changed, err := u.writer.apply(ctx, actor, id, entity.AuditActionBookingStatus, func(txCtx context.Context, b *entity.Booking) (bool, error) {
		previous = b.Status
		assignedChange = false
		dirty := false

		if technicianID != nil && !b.AssignedTo(*technicianID) {
			assigned, err := u.assigner.apply(txCtx, actor, b, existing, *technicianID)
			if err != nil {
				return false, err
			}
			assignedChange = assigned
			dirty = assigned
		}
		afterAssign = b.Status

		reachedByAssignment := technicianID != nil && target == entity.BookingStatusConfirmed &&
			b.IsConfirmed() && b.AssignedTo(*technicianID)
		if !reachedByAssignment {
			if err := lifecycle.Transition(b, target, actor, u.clock.Now()); err != nil {
				return false, err
			}
			dirty = true
		}

		if req.Notes != nil && *req.Notes != b.Notes {
			b.Notes = *req.Notes
			dirty = true
		}
		return dirty, nil
	})
	if err != nil {
		if !isDomainError(err) {
			u.log.Warnf("Failed to update booking %s status: %+v", id, err)
		}
		return nil, err
	}

	if changed && assignedChange {
		u.log.Infof("Technician assigned: booking=%s, technician=%s", id, *technicianID)
		publishEvent(ctx, u.log, u.publisher, service.NewBookingEvent(service.EventBookingConfirmed, updated, actor, u.clock.Now()))
	}
	if changed && updated.Status != afterAssign {
		u.log.Infof("Booking status updated: id=%s, %s -> %s", id, previous, updated.Status)
		publishEvent(ctx, u.log, u.publisher, service.NewBookingEvent(statusEvent(updated.Status), updated, actor, u.clock.Now()))
	}

	return u.projector.project(ctx, updated)
}

// CancelBooking marks the booking cancelled. Bookings are never deleted.
func (u *bookingUsecase) CancelBooking(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	cancelled, _, err := u.writer.apply(ctx, actor, id, entity.AuditActionBookingCancel, func(_ context.Context, b *entity.Booking) (bool, error) {
		if err := lifecycle.Transition(b, entity.BookingStatusCancelled, actor, u.clock.Now()); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		if !isDomainError(err) {
			u.log.Warnf("Failed to cancel booking %s: %+v", id, err)
		}
		return err
	}

	u.log.Infof("Booking cancelled: id=%s", id)
	publishEvent(ctx, u.log, u.publisher, service.NewBookingEvent(service.EventBookingCancelled, cancelled, actor, u.clock.Now()))

	return nil
}

// RescheduleBooking moves a pending booking to a new date and time.
func (u *bookingUsecase) RescheduleBooking(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.BookingResponse, error) {
	scheduledDate, err := u.parseSchedule(req.ScheduledDate, req.ScheduledTime)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	updated, changed, err := u.writer.apply(ctx, actor, id, entity.AuditActionBookingReschedule, func(_ context.Context, b *entity.Booking) (bool, error) {
		if err := policy.Authorize(actor, policy.ActionReschedule, b); err != nil {
			return false, err
		}
		if !b.IsPending() {
			return false, ErrRescheduleNotPending
		}
		if b.ScheduledDate.Equal(scheduledDate) && b.ScheduledTime == req.ScheduledTime {
			return false, nil
		}

		b.ScheduledDate = scheduledDate
		b.ScheduledTime = req.ScheduledTime
		return true, nil
	})
	if err != nil {
		if !isDomainError(err) {
			u.log.Warnf("Failed to reschedule booking %s: %+v", id, err)
		}
		return nil, err
	}

	if changed {
		u.log.Infof("Booking rescheduled: id=%s, %s %s", id, req.ScheduledDate, req.ScheduledTime)
		publishEvent(ctx, u.log, u.publisher, service.NewBookingEvent(service.EventBookingRescheduled, updated, actor, u.clock.Now()))
	}

	return u.projector.project(ctx, updated)
}

func (u *bookingUsecase) findBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := u.bookingRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", id, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// parseSchedule validates a date and time pair and rejects days before today.
func (u *bookingUsecase) parseSchedule(date, slot string) (time.Time, error) {
	scheduledDate, err := entity.ParseScheduledDate(date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	if !validSlot(slot) {
		return time.Time{}, ErrInvalidTime
	}

	today, _ := availability.DayWindow(u.clock.Now())
	if scheduledDate.Before(today) {
		return time.Time{}, ErrScheduleInPast
	}
	return scheduledDate, nil
}

// validSlot accepts zero-padded HH:MM only.
func validSlot(slot string) bool {
	parsed, err := time.Parse(entity.TimeLayout, slot)
	return err == nil && parsed.Format(entity.TimeLayout) == slot
}

func (u *bookingUsecase) normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = u.defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func statusEvent(status entity.BookingStatus) string {
	switch status {
	case entity.BookingStatusConfirmed:
		return service.EventBookingConfirmed
	case entity.BookingStatusCancelled:
		return service.EventBookingCancelled
	default:
		return service.EventBookingStatusChanged
	}
}
