package usecase

import (
	"context"
	"errors"

	"wrenchway-api/internal/converter"
	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/internal/domain/repository"
	"wrenchway-api/internal/service"
	"wrenchway-api/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxWriteAttempts = 3

// bookingMutation edits b in place and reports whether anything changed.
// It runs inside the write transaction; txCtx joins that transaction.
type bookingMutation func(txCtx context.Context, b *entity.Booking) (bool, error)

// bookingWriter is the single write path for existing bookings. Writes to
// one booking are serialized in process by bookingLocks and across
// processes by the version column.
type bookingWriter struct {
	log          *logrus.Logger
	tx           repository.Transactor
	bookingRepo  repository.BookingRepository
	auditService service.AuditService
	bookingLocks service.Locker
	clock        clock.Clock
}

func newBookingWriter(
	log *logrus.Logger,
	tx repository.Transactor,
	bookingRepo repository.BookingRepository,
	auditService service.AuditService,
	bookingLocks service.Locker,
	clk clock.Clock,
) *bookingWriter {
	return &bookingWriter{
		log:          log,
		tx:           tx,
		bookingRepo:  bookingRepo,
		auditService: auditService,
		bookingLocks: bookingLocks,
		clock:        clk,
	}
}

func bookingLockKey(id uuid.UUID) string {
	return "booking:" + id.String()
}

// apply loads the booking, runs mutate and saves the result with a version
// check. A lost version check reloads and re-runs mutate.
func (w *bookingWriter) apply(ctx context.Context, actor entity.Actor, id uuid.UUID, auditAction string, mutate bookingMutation) (*entity.Booking, bool, error) {
	release, err := acquireLock(ctx, w.bookingLocks, bookingLockKey(id), ErrBookingLocked)
	if err != nil {
		w.log.Warnf("Failed to lock booking %s: %+v", id, err)
		return nil, false, err
	}
	defer release()

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		booking, changed, err := w.attempt(ctx, actor, id, auditAction, mutate)
		if errors.Is(err, errVersionConflict) {
			w.log.Warnf("Booking %s changed during write, attempt %d of %d", id, attempt, maxWriteAttempts)
			continue
		}
		return booking, changed, err
	}

	return nil, false, ErrConcurrentUpdate
}

func (w *bookingWriter) attempt(ctx context.Context, actor entity.Actor, id uuid.UUID, auditAction string, mutate bookingMutation) (*entity.Booking, bool, error) {
	var (
		result  *entity.Booking
		changed bool
	)

	err := w.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := w.bookingRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrBookingNotFound
		}

		before := *current
		changed, err = mutate(txCtx, current)
		if err != nil {
			return err
		}
		if !changed {
			result = current
			return nil
		}

		current.UpdatedAt = w.clock.Now()
		rows, err := w.bookingRepo.UpdateWithVersion(txCtx, current, before.Version)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errVersionConflict
		}

		actorID := actor.ID
		if err := w.auditService.LogUpdate(txCtx, &actorID, auditAction, "booking", id.String(),
			converter.BookingToResponse(&before), converter.BookingToResponse(current)); err != nil {
			return err
		}

		result = current
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return result, changed, nil
}
