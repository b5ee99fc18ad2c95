package repository

import (
	"context"
	"time"

	"wrenchway-api/internal/domain/entity"

	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindAll(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]entity.Booking, int64, error)
	// FindActiveInWindow returns confirmed or in-progress bookings scheduled
	// between from and to (inclusive) at scheduledTime.
	FindActiveInWindow(ctx context.Context, from, to time.Time, scheduledTime string) ([]entity.Booking, error)
	CountByTechnician(ctx context.Context, technicianID uuid.UUID, statuses ...entity.BookingStatus) (int64, error)
	// UpdateWithVersion writes the mutable fields of booking only if the stored
	// version still equals expectedVersion. It returns the number of rows updated.
	UpdateWithVersion(ctx context.Context, booking *entity.Booking, expectedVersion int64) (int64, error)
}
