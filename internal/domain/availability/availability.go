// Package availability resolves which technicians are free for a time slot.
package availability

import (
	"time"

	"github.com/google/uuid"

	"wrenchway-api/internal/domain/entity"
)

// DayWindow returns the first and last instant of date's calendar day in UTC.
func DayWindow(date time.Time) (time.Time, time.Time) {
	d := date.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// Busy returns the technicians holding an active booking at date and slot.
// excludeBookingID, when non-nil, is ignored so a booking never conflicts with itself.
func Busy(bookings []entity.Booking, date time.Time, slot string, excludeBookingID *uuid.UUID) map[uuid.UUID]struct{} {
	start, end := DayWindow(date)
	busy := make(map[uuid.UUID]struct{})

	for i := range bookings {
		b := &bookings[i]
		if excludeBookingID != nil && b.ID == *excludeBookingID {
			continue
		}
		if b.TechnicianID == nil || !b.Status.IsActive() || b.ScheduledTime != slot {
			continue
		}
		if b.ScheduledDate.Before(start) || b.ScheduledDate.After(end) {
			continue
		}
		busy[*b.TechnicianID] = struct{}{}
	}

	return busy
}

// FindAvailable returns the members of pool with no active booking at date
// and slot, in pool order.
func FindAvailable(pool []entity.User, bookings []entity.Booking, date time.Time, slot string) []entity.User {
	busy := Busy(bookings, date, slot, nil)

	available := make([]entity.User, 0, len(pool))
	for _, tech := range pool {
		if _, taken := busy[tech.ID]; taken {
			continue
		}
		available = append(available, tech)
	}
	return available
}

// IsAvailable reports whether technicianID is free at date and slot,
// ignoring excludeBookingID.
func IsAvailable(technicianID uuid.UUID, bookings []entity.Booking, date time.Time, slot string, excludeBookingID uuid.UUID) bool {
	_, taken := Busy(bookings, date, slot, &excludeBookingID)[technicianID]
	return !taken
}
