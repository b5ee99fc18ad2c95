package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in-progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// ActiveBookingStatuses hold a technician's time slot.
var ActiveBookingStatuses = []BookingStatus{BookingStatusConfirmed, BookingStatusInProgress}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// IsActive reports whether the status blocks the technician's slot.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusConfirmed || s == BookingStatusInProgress
}

// RequiresTechnician reports whether a booking in this status must have a technician.
func (s BookingStatus) RequiresTechnician() bool {
	return s == BookingStatusConfirmed || s == BookingStatusInProgress || s == BookingStatusCompleted
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return status, nil
}

// Urgency of a repair request
type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyHigh      Urgency = "high"
	UrgencyEmergency Urgency = "emergency"
)

func (u Urgency) IsValid() bool {
	return u == UrgencyNormal || u == UrgencyHigh || u == UrgencyEmergency
}

// ParseUrgency defaults an empty value to normal.
func ParseUrgency(s string) (Urgency, error) {
	if s == "" {
		return UrgencyNormal, nil
	}
	u := Urgency(s)
	if !u.IsValid() {
		return "", fmt.Errorf("unknown urgency %q", s)
	}
	return u, nil
}

// Booking represents a customer's repair appointment
type Booking struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	ServiceID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"service_id"`
	TechnicianID    *uuid.UUID      `gorm:"type:uuid;index" json:"technician_id,omitempty"`
	Status          BookingStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ScheduledDate   time.Time       `gorm:"type:date;not null;index" json:"scheduled_date"`
	ScheduledTime   string          `gorm:"type:varchar(5);not null" json:"scheduled_time"`
	CustomerAddress string          `gorm:"type:text;not null" json:"customer_address"`
	CustomerPhone   string          `gorm:"type:varchar(30);not null" json:"customer_phone"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	Urgency         Urgency         `gorm:"type:varchar(20);not null;default:'normal'" json:"urgency"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	Version         int64           `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsPending checks if booking is in pending status
func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// IsConfirmed checks if booking is confirmed
func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// IsCancelled checks if booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

func (b *Booking) HasTechnician() bool {
	return b.TechnicianID != nil
}

// AssignedTo reports whether technicianID currently holds the booking.
func (b *Booking) AssignedTo(technicianID uuid.UUID) bool {
	return b.TechnicianID != nil && *b.TechnicianID == technicianID
}

// OwnedBy reports whether customerID placed the booking.
func (b *Booking) OwnedBy(customerID uuid.UUID) bool {
	return b.CustomerID == customerID
}

// SlotKey identifies the technician time slot the booking occupies.
func (b *Booking) SlotKey(technicianID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", technicianID, b.ScheduledDate.Format(DateLayout), b.ScheduledTime)
}

const (
	// DateLayout is the wire format of scheduled dates
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format of scheduled times
	TimeLayout = "15:04"
)

// ParseScheduledDate parses a YYYY-MM-DD date as UTC midnight.
func ParseScheduledDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
