package usecase

import (
	"context"
	"time"

	"wrenchway-api/internal/converter"
	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/domain/availability"
	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/internal/domain/policy"
	"wrenchway-api/internal/domain/repository"
	"wrenchway-api/internal/service"
	"wrenchway-api/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

type TechnicianUsecase interface {
	ListTechnicians(ctx context.Context) (*dto.TechnicianListResponse, error)
	GetTechnician(ctx context.Context, id uuid.UUID) (*dto.TechnicianResponse, error)
	CreateTechnician(ctx context.Context, actor entity.Actor, req *dto.CreateTechnicianRequest) (*dto.TechnicianResponse, error)
	UpdateTechnician(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateTechnicianRequest) (*dto.TechnicianResponse, error)
	DeleteTechnician(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	FindAvailable(ctx context.Context, date, slot string) (*dto.TechnicianListResponse, error)
}

type technicianUsecase struct {
	log          *logrus.Logger
	tx           repository.Transactor
	userRepo     repository.UserRepository
	bookingRepo  repository.BookingRepository
	auditService service.AuditService
	publisher    service.EventPublisher
	clock        clock.Clock
	queryTimeout time.Duration
}

func NewTechnicianUsecase(
	log *logrus.Logger,
	tx repository.Transactor,
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRepository,
	auditService service.AuditService,
	publisher service.EventPublisher,
	clk clock.Clock,
	queryTimeout time.Duration,
) TechnicianUsecase {
	return &technicianUsecase{
		log:          log,
		tx:           tx,
		userRepo:     userRepo,
		bookingRepo:  bookingRepo,
		auditService: auditService,
		publisher:    publisher,
		clock:        clk,
		queryTimeout: queryTimeout,
	}
}

func (u *technicianUsecase) ListTechnicians(ctx context.Context) (*dto.TechnicianListResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	technicians, err := u.userRepo.FindByRole(ctx, entity.RoleTechnician)
	if err != nil {
		u.log.Warnf("Failed to find technicians: %+v", err)
		return nil, err
	}

	responses := converter.TechniciansToResponses(technicians)
	return &dto.TechnicianListResponse{
		Technicians: responses,
		Total:       len(responses),
	}, nil
}

// GetTechnician returns the technician with booking counts.
func (u *technicianUsecase) GetTechnician(ctx context.Context, id uuid.UUID) (*dto.TechnicianResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	technician, err := u.findTechnician(ctx, id)
	if err != nil {
		return nil, err
	}

	var stats entity.TechnicianStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := u.bookingRepo.CountByTechnician(gctx, id)
		stats.TotalBookings = n
		return err
	})
	g.Go(func() error {
		n, err := u.bookingRepo.CountByTechnician(gctx, id, entity.BookingStatusCompleted)
		stats.CompletedBookings = n
		return err
	})
	g.Go(func() error {
		n, err := u.bookingRepo.CountByTechnician(gctx, id, entity.ActiveBookingStatuses...)
		stats.ActiveBookings = n
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to count bookings of technician %s: %+v", id, err)
		return nil, err
	}

	response := converter.TechnicianToResponse(technician)
	response.Stats = converter.TechnicianStatsToResponse(stats)
	return response, nil
}

func (u *technicianUsecase) CreateTechnician(ctx context.Context, actor entity.Actor, req *dto.CreateTechnicianRequest) (*dto.TechnicianResponse, error) {
	if err := policy.Authorize(actor, policy.ActionManageTechnicians, nil); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	now := u.clock.Now()
	technician := &entity.User{
		ID:             uuid.New(),
		Name:           req.Name,
		Email:          req.Email,
		Password:       string(hashedPassword),
		Phone:          req.Phone,
		Role:           entity.RoleTechnician,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Certifications: entity.StringList(req.Certifications),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = u.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, technician); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to create technician: %+v", err)
			return err
		}

		actorID := actor.ID
		return u.auditService.LogCreate(txCtx, &actorID, entity.AuditActionTechnicianCreate, "technician",
			technician.ID.String(), converter.TechnicianToResponse(technician))
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Technician created: id=%s", technician.ID)
	return converter.TechnicianToResponse(technician), nil
}

// UpdateTechnician changes profile fields. Email, password and role are not
// editable here.
func (u *technicianUsecase) UpdateTechnician(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateTechnicianRequest) (*dto.TechnicianResponse, error) {
	if err := policy.Authorize(actor, policy.ActionManageTechnicians, nil); err != nil {
		return nil, err
	}

	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	var updated *entity.User
	err := u.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		technician, err := u.userRepo.LockByID(txCtx, id, true)
		if err != nil {
			u.log.Warnf("Failed to find technician %s: %+v", id, err)
			return err
		}
		if technician == nil || !technician.IsTechnician() {
			return ErrTechnicianNotFound
		}

		oldValue := converter.TechnicianToResponse(technician)

		if req.Name != nil {
			technician.Name = *req.Name
		}
		if req.Phone != nil {
			technician.Phone = *req.Phone
		}
		if req.Specialization != nil {
			technician.Specialization = *req.Specialization
		}
		if req.Experience != nil {
			technician.Experience = *req.Experience
		}
		if req.Certifications != nil {
			technician.Certifications = entity.StringList(req.Certifications)
		}
		technician.UpdatedAt = u.clock.Now()

		if err := u.userRepo.Update(txCtx, technician); err != nil {
			u.log.Warnf("Failed to update technician %s: %+v", id, err)
			return err
		}

		actorID := actor.ID
		if err := u.auditService.LogUpdate(txCtx, &actorID, entity.AuditActionTechnicianUpdate, "technician",
			id.String(), oldValue, converter.TechnicianToResponse(technician)); err != nil {
			return err
		}

		updated = technician
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.TechnicianToResponse(updated), nil
}

// DeleteTechnician removes a technician that holds no confirmed or
// in-progress booking. The row lock taken here makes a concurrent
// assignment to the same technician wait for the outcome.
func (u *technicianUsecase) DeleteTechnician(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if err := policy.Authorize(actor, policy.ActionManageTechnicians, nil); err != nil {
		return err
	}

	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	var deleted *entity.User
	err := u.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		technician, err := u.userRepo.LockByID(txCtx, id, true)
		if err != nil {
			u.log.Warnf("Failed to find technician %s: %+v", id, err)
			return err
		}
		if technician == nil || !technician.IsTechnician() {
			return ErrTechnicianNotFound
		}

		active, err := u.bookingRepo.CountByTechnician(txCtx, id, entity.ActiveBookingStatuses...)
		if err != nil {
			u.log.Warnf("Failed to count bookings of technician %s: %+v", id, err)
			return err
		}
		if active > 0 {
			return technicianHasActiveBookings(active)
		}

		rows, err := u.userRepo.Delete(txCtx, id)
		if err != nil {
			u.log.Warnf("Failed to delete technician %s: %+v", id, err)
			return err
		}
		if rows == 0 {
			return ErrTechnicianNotFound
		}

		actorID := actor.ID
		if err := u.auditService.LogDelete(txCtx, &actorID, entity.AuditActionTechnicianDelete, "technician",
			id.String(), converter.TechnicianToResponse(technician)); err != nil {
			return err
		}

		deleted = technician
		return nil
	})
	if err != nil {
		return err
	}

	u.log.Infof("Technician deleted: id=%s", id)
	publishEvent(ctx, u.log, u.publisher, service.NewEvent(service.EventTechnicianDeleted, actor, u.clock.Now(), map[string]interface{}{
		"technician_id": deleted.ID.String(),
		"email":         deleted.Email,
	}))

	return nil
}

// FindAvailable lists technicians free at date and slot. Without both values
// the whole technician pool is returned.
func (u *technicianUsecase) FindAvailable(ctx context.Context, date, slot string) (*dto.TechnicianListResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	pool, err := u.userRepo.FindByRole(ctx, entity.RoleTechnician)
	if err != nil {
		u.log.Warnf("Failed to find technicians: %+v", err)
		return nil, err
	}

	if date != "" && slot != "" {
		scheduledDate, err := entity.ParseScheduledDate(date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		if !validSlot(slot) {
			return nil, ErrInvalidTime
		}

		from, to := availability.DayWindow(scheduledDate)
		bookings, err := u.bookingRepo.FindActiveInWindow(ctx, from, to, slot)
		if err != nil {
			u.log.Warnf("Failed to find bookings on %s %s: %+v", date, slot, err)
			return nil, err
		}
		pool = availability.FindAvailable(pool, bookings, scheduledDate, slot)
	}

	responses := converter.TechniciansToResponses(pool)
	return &dto.TechnicianListResponse{
		Technicians: responses,
		Total:       len(responses),
	}, nil
}

func (u *technicianUsecase) findTechnician(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	technician, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find technician %s: %+v", id, err)
		return nil, err
	}
	if technician == nil || !technician.IsTechnician() {
		return nil, ErrTechnicianNotFound
	}
	return technician, nil
}
