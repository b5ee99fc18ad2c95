package repository

import (
	"context"
	"errors"
	"time"

	"wrenchway-api/internal/domain/entity"
	domainRepo "wrenchway-api/internal/domain/repository"
	"wrenchway-api/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) domainRepo.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	return classifyError(database.Conn(ctx, r.db).Create(booking).Error)
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classifyError(err)
	}
	return &booking, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]entity.Booking, int64, error) {
	var bookings []entity.Booking
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.Booking{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.TechnicianID != nil {
		query = query.Where("technician_id = ?", *filter.TechnicianID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("scheduled_date >= ?", dateParam(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query = query.Where("scheduled_date <= ?", dateParam(*filter.DateTo))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, classifyError(err)
	}

	order := "created_at DESC"
	if filter.SortByScheduleAsc {
		order = "scheduled_date ASC, scheduled_time ASC"
	}

	if err := query.Order(order).Limit(limit).Offset(offset).Find(&bookings).Error; err != nil {
		return nil, 0, classifyError(err)
	}

	return bookings, total, nil
}

func (r *bookingRepository) FindActiveInWindow(ctx context.Context, from, to time.Time, scheduledTime string) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := database.Conn(ctx, r.db).
		Where("scheduled_date BETWEEN ? AND ?", dateParam(from), dateParam(to)).
		Where("scheduled_time = ?", scheduledTime).
		Where("status IN ?", entity.ActiveBookingStatuses).
		Where("technician_id IS NOT NULL").
		Find(&bookings).Error
	if err != nil {
		return nil, classifyError(err)
	}
	return bookings, nil
}

// dateParam binds t as a calendar date. scheduled_date is a DATE column, and
// a timestamp bound would be shifted by the session time zone.
func dateParam(t time.Time) string {
	return t.UTC().Format(entity.DateLayout)
}

func (r *bookingRepository) CountByTechnician(ctx context.Context, technicianID uuid.UUID, statuses ...entity.BookingStatus) (int64, error) {
	var count int64
	query := database.Conn(ctx, r.db).Model(&entity.Booking{}).Where("technician_id = ?", technicianID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, classifyError(err)
	}
	return count, nil
}

// UpdateWithVersion atomically writes the booking ONLY if nobody else wrote it
// since it was read. Returns affected rows: 1 = success, 0 = lost the race.
func (r *bookingRepository) UpdateWithVersion(ctx context.Context, booking *entity.Booking, expectedVersion int64) (int64, error) {
	result := database.Conn(ctx, r.db).Model(&entity.Booking{}).
		Where("id = ? AND version = ?", booking.ID, expectedVersion).
		Updates(map[string]interface{}{
			"technician_id":  booking.TechnicianID,
			"status":         booking.Status,
			"scheduled_date": booking.ScheduledDate,
			"scheduled_time": booking.ScheduledTime,
			"notes":          booking.Notes,
			"completed_at":   booking.CompletedAt,
			"cancelled_at":   booking.CancelledAt,
			"version":        expectedVersion + 1,
			"updated_at":     booking.UpdatedAt,
		})
	if result.Error != nil {
		return 0, classifyError(result.Error)
	}
	if result.RowsAffected == 1 {
		booking.Version = expectedVersion + 1
	}
	return result.RowsAffected, nil
}
