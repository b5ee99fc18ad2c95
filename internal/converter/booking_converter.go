package converter

import (
	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/domain/entity"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO.
// Related customer, service and technician are filled by the caller.
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	return &dto.BookingResponse{
		ID:              booking.ID,
		CustomerID:      booking.CustomerID,
		ServiceID:       booking.ServiceID,
		TechnicianID:    booking.TechnicianID,
		Status:          string(booking.Status),
		ScheduledDate:   booking.ScheduledDate.Format(entity.DateLayout),
		ScheduledTime:   booking.ScheduledTime,
		CustomerAddress: booking.CustomerAddress,
		CustomerPhone:   booking.CustomerPhone,
		Notes:           booking.Notes,
		Urgency:         string(booking.Urgency),
		TotalAmount:     booking.TotalAmount,
		CompletedAt:     booking.CompletedAt,
		CancelledAt:     booking.CancelledAt,
		Version:         booking.Version,
		CreatedAt:       booking.CreatedAt,
		UpdatedAt:       booking.UpdatedAt,
	}
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}
