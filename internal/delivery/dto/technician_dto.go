package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateTechnicianRequest struct {
	Name           string   `json:"name" validate:"required,min=2"`
	Email          string   `json:"email" validate:"required,email"`
	Password       string   `json:"password" validate:"required,min=6"`
	Phone          string   `json:"phone" validate:"required,min=6,max=30"`
	Specialization string   `json:"specialization" validate:"required,max=100"`
	Experience     int      `json:"experience" validate:"gte=0,lte=80"`
	Certifications []string `json:"certifications" validate:"omitempty,dive,required,max=255"`
}

// UpdateTechnicianRequest changes profile fields only; nil leaves a field as is.
type UpdateTechnicianRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=2"`
	Phone          *string  `json:"phone" validate:"omitempty,min=6,max=30"`
	Specialization *string  `json:"specialization" validate:"omitempty,max=100"`
	Experience     *int     `json:"experience" validate:"omitempty,gte=0,lte=80"`
	Certifications []string `json:"certifications" validate:"omitempty,dive,required,max=255"`
}

type AssignTechnicianRequest struct {
	BookingID    string `json:"booking_id" validate:"required,uuid"`
	TechnicianID string `json:"technician_id" validate:"required,uuid"`
}

// Response DTOs

type TechnicianResponse struct {
	ID             uuid.UUID                `json:"id"`
	Name           string                   `json:"name"`
	Email          string                   `json:"email"`
	Phone          string                   `json:"phone,omitempty"`
	Specialization string                   `json:"specialization,omitempty"`
	Experience     int                      `json:"experience"`
	Certifications []string                 `json:"certifications"`
	Stats          *TechnicianStatsResponse `json:"stats,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

type TechnicianStatsResponse struct {
	TotalBookings     int64 `json:"total_bookings"`
	CompletedBookings int64 `json:"completed_bookings"`
	ActiveBookings    int64 `json:"active_bookings"`
}

type TechnicianListResponse struct {
	Technicians []TechnicianResponse `json:"technicians"`
	Total       int                  `json:"total"`
}
