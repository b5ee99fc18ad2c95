package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateBookingRequest struct {
	ServiceID string `json:"service_id" validate:"required,uuid"`
	// CustomerID lets an admin book on behalf of a customer
	CustomerID      string `json:"customer_id" validate:"omitempty,uuid"`
	ScheduledDate   string `json:"scheduled_date" validate:"required,booking_date"`
	ScheduledTime   string `json:"scheduled_time" validate:"required,slot_time"`
	CustomerAddress string `json:"customer_address" validate:"required,min=5"`
	CustomerPhone   string `json:"customer_phone" validate:"required,min=6,max=30"`
	Notes           string `json:"notes" validate:"omitempty,max=2000"`
	Urgency         string `json:"urgency" validate:"omitempty,oneof=normal high emergency"`
}

type UpdateBookingStatusRequest struct {
	Status       string  `json:"status" validate:"required,oneof=pending confirmed in-progress completed cancelled"`
	Notes        *string `json:"notes" validate:"omitempty,max=2000"`
	TechnicianID *string `json:"technician_id" validate:"omitempty,uuid"`
}

type RescheduleBookingRequest struct {
	ScheduledDate string `json:"scheduled_date" validate:"required,booking_date"`
	ScheduledTime string `json:"scheduled_time" validate:"required,slot_time"`
}

// BookingListQuery holds the optional list filters taken from the query string
type BookingListQuery struct {
	Status       string
	CustomerID   *uuid.UUID
	TechnicianID *uuid.UUID
	DateFrom     string
	DateTo       string
}

// Response DTOs

type BookingResponse struct {
	ID              uuid.UUID        `json:"id"`
	CustomerID      uuid.UUID        `json:"customer_id"`
	ServiceID       uuid.UUID        `json:"service_id"`
	TechnicianID    *uuid.UUID       `json:"technician_id,omitempty"`
	Status          string           `json:"status"`
	ScheduledDate   string           `json:"scheduled_date"`
	ScheduledTime   string           `json:"scheduled_time"`
	CustomerAddress string           `json:"customer_address"`
	CustomerPhone   string           `json:"customer_phone"`
	Notes           string           `json:"notes,omitempty"`
	Urgency         string           `json:"urgency"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	CancelledAt     *time.Time       `json:"cancelled_at,omitempty"`
	Version         int64            `json:"version"`
	Customer        *UserSummary     `json:"customer,omitempty"`
	Service         *ServiceResponse `json:"service,omitempty"`
	Technician      *UserSummary     `json:"technician,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
