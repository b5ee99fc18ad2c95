package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingFilter is a domain-level filter for querying bookings.
// Used by repository layer to avoid coupling with delivery DTOs.
type BookingFilter struct {
	CustomerID   *uuid.UUID
	TechnicianID *uuid.UUID
	Status       *BookingStatus
	DateFrom     *time.Time
	DateTo       *time.Time

	// SortByScheduleAsc orders by scheduled date instead of newest first
	SortByScheduleAsc bool
}
