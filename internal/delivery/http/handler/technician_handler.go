package handler

import (
	"encoding/json"
	"net/http"

	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/usecase"
	"wrenchway-api/pkg/response"
	"wrenchway-api/pkg/validator"

	"github.com/google/uuid"
)

type TechnicianHandler struct {
	technicianUsecase usecase.TechnicianUsecase
	assignmentUsecase usecase.AssignmentUsecase
	validator         *validator.CustomValidator
}

func NewTechnicianHandler(
	technicianUsecase usecase.TechnicianUsecase,
	assignmentUsecase usecase.AssignmentUsecase,
	validator *validator.CustomValidator,
) *TechnicianHandler {
	return &TechnicianHandler{
		technicianUsecase: technicianUsecase,
		assignmentUsecase: assignmentUsecase,
		validator:         validator,
	}
}

func (h *TechnicianHandler) GetAllTechnicians(w http.ResponseWriter, r *http.Request) {
	technicians, err := h.technicianUsecase.ListTechnicians(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get technicians")
		return
	}

	response.Success(w, http.StatusOK, "Technicians retrieved successfully", technicians)
}

// GetAvailableTechnicians answers ?date=YYYY-MM-DD&time=HH:MM.
func (h *TechnicianHandler) GetAvailableTechnicians(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	slot := r.URL.Query().Get("time")

	if date != "" {
		if err := h.validator.Var(date, "booking_date"); err != nil {
			response.BadRequest(w, "Invalid date format, use YYYY-MM-DD")
			return
		}
	}
	if slot != "" {
		if err := h.validator.Var(slot, "slot_time"); err != nil {
			response.BadRequest(w, "Invalid time format, use HH:MM")
			return
		}
	}

	technicians, err := h.technicianUsecase.FindAvailable(r.Context(), date, slot)
	if err != nil {
		writeError(w, err, "Failed to get available technicians")
		return
	}

	response.Success(w, http.StatusOK, "Available technicians retrieved successfully", technicians)
}

func (h *TechnicianHandler) GetTechnician(w http.ResponseWriter, r *http.Request) {
	technicianID, ok := pathUUID(w, r, "id", "technician")
	if !ok {
		return
	}

	technician, err := h.technicianUsecase.GetTechnician(r.Context(), technicianID)
	if err != nil {
		writeError(w, err, "Failed to get technician")
		return
	}

	response.Success(w, http.StatusOK, "Technician retrieved successfully", technician)
}

func (h *TechnicianHandler) CreateTechnician(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateTechnicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	technician, err := h.technicianUsecase.CreateTechnician(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, "Failed to create technician")
		return
	}

	response.Success(w, http.StatusCreated, "Technician created successfully", technician)
}

func (h *TechnicianHandler) UpdateTechnician(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	technicianID, ok := pathUUID(w, r, "id", "technician")
	if !ok {
		return
	}

	var req dto.UpdateTechnicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	technician, err := h.technicianUsecase.UpdateTechnician(r.Context(), actor, technicianID, &req)
	if err != nil {
		writeError(w, err, "Failed to update technician")
		return
	}

	response.Success(w, http.StatusOK, "Technician updated successfully", technician)
}

func (h *TechnicianHandler) DeleteTechnician(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	technicianID, ok := pathUUID(w, r, "id", "technician")
	if !ok {
		return
	}

	if err := h.technicianUsecase.DeleteTechnician(r.Context(), actor, technicianID); err != nil {
		writeError(w, err, "Failed to delete technician")
		return
	}

	response.Success(w, http.StatusOK, "Technician deleted successfully", nil)
}

func (h *TechnicianHandler) AssignBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req dto.AssignTechnicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	// Both ids passed the uuid validation tag
	bookingID := uuid.MustParse(req.BookingID)
	technicianID := uuid.MustParse(req.TechnicianID)

	booking, err := h.assignmentUsecase.AssignTechnician(r.Context(), actor, bookingID, technicianID)
	if err != nil {
		writeError(w, err, "Failed to assign technician")
		return
	}

	response.Success(w, http.StatusOK, "Technician assigned successfully", booking)
}
