package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wrenchway-api/internal/apperror"
	"wrenchway-api/internal/service"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrBookingNotFound    = fmt.Errorf("booking %w", apperror.ErrNotFound)
	ErrServiceNotFound    = fmt.Errorf("service %w", apperror.ErrNotFound)
	ErrTechnicianNotFound = fmt.Errorf("technician %w", apperror.ErrNotFound)
	ErrCustomerNotFound   = fmt.Errorf("customer %w", apperror.ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", apperror.ErrNotFound)
	ErrAuditLogNotFound   = fmt.Errorf("audit log %w", apperror.ErrNotFound)

	ErrTechnicianBusy     = fmt.Errorf("technician already has a booking at this time: %w", apperror.ErrConflict)
	ErrConcurrentUpdate   = fmt.Errorf("booking was modified concurrently, please retry: %w", apperror.ErrConflict)
	ErrSlotChanged        = fmt.Errorf("booking was rescheduled during assignment: %w", apperror.ErrConflict)
	ErrBookingLocked      = fmt.Errorf("booking is being changed by another request: %w", apperror.ErrConflict)
	ErrSlotLocked         = fmt.Errorf("slot is being assigned by another request: %w", apperror.ErrConflict)
	ErrEmailAlreadyExists = fmt.Errorf("email already exists: %w", apperror.ErrConflict)

	ErrRescheduleNotPending = fmt.Errorf("only pending bookings can be rescheduled: %w", apperror.ErrInvalidTransition)

	ErrInvalidDate      = fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", apperror.ErrInvalid)
	ErrInvalidTime      = fmt.Errorf("invalid time format, use HH:MM: %w", apperror.ErrInvalid)
	ErrScheduleInPast   = fmt.Errorf("cannot book a date in the past: %w", apperror.ErrInvalid)
	ErrInvalidStatus    = fmt.Errorf("invalid booking status: %w", apperror.ErrInvalid)
	ErrInvalidUrgency   = fmt.Errorf("invalid urgency, use normal, high or emergency: %w", apperror.ErrInvalid)
	ErrInvalidID        = fmt.Errorf("invalid id: %w", apperror.ErrInvalid)
	ErrCustomerRequired = fmt.Errorf("customer_id is required when booking for a customer: %w", apperror.ErrInvalid)

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// errVersionConflict signals a lost compare-and-swap; it never leaves the package.
var errVersionConflict = errors.New("booking version changed")

// acquireLock takes key on locker. Running out of time while another holder
// keeps the key is reported as busy.
func acquireLock(ctx context.Context, locker service.Locker, key string, busy error) (func(), error) {
	release, err := locker.Acquire(ctx, key)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, busy
	}
	return release, err
}

func technicianHasActiveBookings(n int64) error {
	return fmt.Errorf("technician has %d active bookings: %w", n, apperror.ErrConflict)
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isDomainError reports errors that are expected outcomes rather than failures.
func isDomainError(err error) bool {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound, apperror.KindForbidden, apperror.KindInvalidTransition,
		apperror.KindConflict, apperror.KindInvalid:
		return true
	}
	return false
}

func withQueryTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
