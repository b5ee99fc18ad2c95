package handler

import (
	"encoding/json"
	"net/http"

	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/usecase"
	"wrenchway-api/pkg/response"
	"wrenchway-api/pkg/validator"
)

type BookingHandler struct {
	bookingUsecase  usecase.BookingUsecase
	validator       *validator.CustomValidator
	defaultPageSize int
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator, defaultPageSize int) *BookingHandler {
	return &BookingHandler{
		bookingUsecase:  bookingUsecase,
		validator:       validator,
		defaultPageSize: defaultPageSize,
	}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, "Failed to create booking")
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

// GetAllBookings lists bookings visible to the caller.
// Query: status, customer_id, technician_id, date_from, date_to, page, limit
func (h *BookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	customerID, err := queryUUID(r, "customer_id")
	if err != nil {
		response.BadRequest(w, "Invalid customer_id")
		return
	}
	technicianID, err := queryUUID(r, "technician_id")
	if err != nil {
		response.BadRequest(w, "Invalid technician_id")
		return
	}

	q := r.URL.Query()
	query := dto.BookingListQuery{
		Status:       q.Get("status"),
		CustomerID:   customerID,
		TechnicianID: technicianID,
		DateFrom:     q.Get("date_from"),
		DateTo:       q.Get("date_to"),
	}

	page, limit := pagination(r, h.defaultPageSize)
	bookings, total, err := h.bookingUsecase.ListBookings(r.Context(), actor, query, page, limit)
	if err != nil {
		writeError(w, err, "Failed to get bookings")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Bookings retrieved successfully", bookings, response.NewMeta(page, limit, total))
}

// GetMyBookings lists the caller's own bookings. The use case scopes a
// customer to their bookings regardless of filters.
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	query := dto.BookingListQuery{Status: r.URL.Query().Get("status")}
	page, limit := pagination(r, h.defaultPageSize)
	bookings, total, err := h.bookingUsecase.ListBookings(r.Context(), actor, query, page, limit)
	if err != nil {
		writeError(w, err, "Failed to get bookings")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Bookings retrieved successfully", bookings, response.NewMeta(page, limit, total))
}

func (h *BookingHandler) GetAssignedBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	page, limit := pagination(r, h.defaultPageSize)
	bookings, total, err := h.bookingUsecase.ListAssignedBookings(r.Context(), actor, page, limit)
	if err != nil {
		writeError(w, err, "Failed to get bookings")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Bookings retrieved successfully", bookings, response.NewMeta(page, limit, total))
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.bookingUsecase.GetBooking(r.Context(), actor, bookingID)
	if err != nil {
		writeError(w, err, "Failed to get booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	var req dto.UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.UpdateStatus(r.Context(), actor, bookingID, &req)
	if err != nil {
		writeError(w, err, "Failed to update booking status")
		return
	}

	response.Success(w, http.StatusOK, "Booking status updated successfully", booking)
}

func (h *BookingHandler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	var req dto.RescheduleBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.RescheduleBooking(r.Context(), actor, bookingID, &req)
	if err != nil {
		writeError(w, err, "Failed to reschedule booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking rescheduled successfully", booking)
}

// CancelBooking marks the booking cancelled; bookings are never deleted.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	if err := h.bookingUsecase.CancelBooking(r.Context(), actor, bookingID); err != nil {
		writeError(w, err, "Failed to cancel booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled successfully", nil)
}
