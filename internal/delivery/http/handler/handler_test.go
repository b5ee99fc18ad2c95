package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wrenchway-api/internal/apperror"
	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/delivery/http/middleware"
	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/internal/usecase"
	"wrenchway-api/pkg/response"
	"wrenchway-api/pkg/validator"
)

type stubBookingUsecase struct {
	usecase.BookingUsecase
	createErr error
	listQuery dto.BookingListQuery
	page      int
	limit     int
	cancelErr error
	statusErr error
}

func (s *stubBookingUsecase) CreateBooking(_ context.Context, actor entity.Actor, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &dto.BookingResponse{ID: uuid.New(), CustomerID: actor.ID, Status: "pending", ScheduledDate: req.ScheduledDate}, nil
}

func (s *stubBookingUsecase) ListBookings(_ context.Context, _ entity.Actor, query dto.BookingListQuery, page, limit int) ([]dto.BookingResponse, int64, error) {
	s.listQuery, s.page, s.limit = query, page, limit
	return []dto.BookingResponse{{ID: uuid.New()}}, 31, nil
}

func (s *stubBookingUsecase) UpdateStatus(_ context.Context, _ entity.Actor, id uuid.UUID, req *dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &dto.BookingResponse{ID: id, Status: req.Status}, nil
}

func (s *stubBookingUsecase) CancelBooking(context.Context, entity.Actor, uuid.UUID) error {
	return s.cancelErr
}

type stubTechnicianUsecase struct {
	usecase.TechnicianUsecase
	date, slot string
}

func (s *stubTechnicianUsecase) FindAvailable(_ context.Context, date, slot string) (*dto.TechnicianListResponse, error) {
	s.date, s.slot = date, slot
	return &dto.TechnicianListResponse{Technicians: []dto.TechnicianResponse{{Name: "Budi"}}, Total: 1}, nil
}

type stubAssignmentUsecase struct {
	err error
}

func (s *stubAssignmentUsecase) AssignTechnician(_ context.Context, _ entity.Actor, bookingID, technicianID uuid.UUID) (*dto.BookingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.BookingResponse{ID: bookingID, TechnicianID: &technicianID, Status: "confirmed"}, nil
}

var (
	adminActor    = entity.Actor{ID: uuid.New(), Role: entity.RoleAdmin}
	customerActor = entity.Actor{ID: uuid.New(), Role: entity.RoleCustomer}
)

func newRequest(method, target, body string, actor *entity.Actor) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if actor != nil {
		r = r.WithContext(middleware.WithActor(r.Context(), *actor))
	}
	return r
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", usecase.ErrBookingNotFound, http.StatusNotFound, "booking not found"},
		{"forbidden", apperror.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"conflict", usecase.ErrTechnicianBusy, http.StatusConflict, usecase.ErrTechnicianBusy.Error()},
		{"invalid transition", apperror.ErrInvalidTransition, http.StatusConflict, "invalid status transition"},
		{"invalid input", usecase.ErrInvalidDate, http.StatusBadRequest, usecase.ErrInvalidDate.Error()},
		{"unavailable", apperror.ErrUnavailable, http.StatusServiceUnavailable, ""},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "Failed to do it"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "Failed to do it")

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Message)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query       string
		page, limit   int
	}{
		{"", 1, 10},
		{"?page=3&limit=20", 3, 20},
		{"?page=-1&limit=0", 1, 10},
		{"?limit=1000", 1, maxPageSize},
		{"?page=abc", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, limit := pagination(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil), 10)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestCreateBooking(t *testing.T) {
	valid := `{"service_id":"` + uuid.NewString() + `","scheduled_date":"2024-05-02","scheduled_time":"10:00","customer_address":"Jl. Merdeka 1","customer_phone":"0812345678"}`

	tests := []struct {
		name   string
		body   string
		actor  *entity.Actor
		err    error
		status int
	}{
		{"created", valid, &customerActor, nil, http.StatusCreated},
		{"no identity", valid, nil, nil, http.StatusUnauthorized},
		{"malformed body", `{`, &customerActor, nil, http.StatusBadRequest},
		{"bad time format", strings.Replace(valid, "10:00", "9:00", 1), &customerActor, nil, http.StatusBadRequest},
		{"service missing", valid, &customerActor, usecase.ErrServiceNotFound, http.StatusNotFound},
		{"past date", valid, &customerActor, usecase.ErrScheduleInPast, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBookingHandler(&stubBookingUsecase{createErr: tt.err}, validator.NewValidator(), 10)
			rec := httptest.NewRecorder()

			h.CreateBooking(rec, newRequest(http.MethodPost, "/api/v1/bookings", tt.body, tt.actor))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestGetAllBookingsPassesFilters(t *testing.T) {
	stub := &stubBookingUsecase{}
	h := NewBookingHandler(stub, validator.NewValidator(), 10)
	techID := uuid.New()

	rec := httptest.NewRecorder()
	h.GetAllBookings(rec, newRequest(http.MethodGet,
		"/api/v1/bookings?status=confirmed&technician_id="+techID.String()+"&page=2&limit=15", "", &adminActor))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmed", stub.listQuery.Status)
	require.NotNil(t, stub.listQuery.TechnicianID)
	assert.Equal(t, techID, *stub.listQuery.TechnicianID)
	assert.Nil(t, stub.listQuery.CustomerID)
	assert.Equal(t, 2, stub.page)
	assert.Equal(t, 15, stub.limit)

	resp := decode(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(31), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestGetAllBookingsRejectsMalformedFilter(t *testing.T) {
	h := NewBookingHandler(&stubBookingUsecase{}, validator.NewValidator(), 10)
	rec := httptest.NewRecorder()

	h.GetAllBookings(rec, newRequest(http.MethodGet, "/api/v1/bookings?customer_id=nope", "", &adminActor))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateBookingStatus(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
	}{
		{"updated", id.String(), `{"status":"in-progress"}`, nil, http.StatusOK},
		{"bad id", "abc", `{"status":"in-progress"}`, nil, http.StatusBadRequest},
		{"unknown status", id.String(), `{"status":"done"}`, nil, http.StatusBadRequest},
		{"terminal", id.String(), `{"status":"pending"}`, apperror.ErrInvalidTransition, http.StatusConflict},
		{"customer", id.String(), `{"status":"cancelled"}`, apperror.ErrForbidden, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBookingHandler(&stubBookingUsecase{statusErr: tt.err}, validator.NewValidator(), 10)
			req := newRequest(http.MethodPut, "/api/v1/bookings/"+tt.path+"/status", tt.body, &adminActor)
			req = mux.SetURLVars(req, map[string]string{"id": tt.path})
			rec := httptest.NewRecorder()

			h.UpdateBookingStatus(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestCancelBooking(t *testing.T) {
	id := uuid.New().String()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"cancelled", nil, http.StatusOK},
		{"not found", usecase.ErrBookingNotFound, http.StatusNotFound},
		{"lost race", usecase.ErrConcurrentUpdate, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBookingHandler(&stubBookingUsecase{cancelErr: tt.err}, validator.NewValidator(), 10)
			req := mux.SetURLVars(newRequest(http.MethodDelete, "/api/v1/bookings/"+id, "", &customerActor), map[string]string{"id": id})
			rec := httptest.NewRecorder()

			h.CancelBooking(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestGetAvailableTechnicians(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		date   string
		slot   string
	}{
		{"date and time", "?date=2024-05-01&time=10:00", http.StatusOK, "2024-05-01", "10:00"},
		{"no filter", "", http.StatusOK, "", ""},
		{"bad date", "?date=01-05-2024&time=10:00", http.StatusBadRequest, "", ""},
		{"bad time", "?date=2024-05-01&time=10am", http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubTechnicianUsecase{}
			h := NewTechnicianHandler(stub, &stubAssignmentUsecase{}, validator.NewValidator())
			rec := httptest.NewRecorder()

			h.GetAvailableTechnicians(rec, newRequest(http.MethodGet, "/api/v1/technicians/available"+tt.query, "", &adminActor))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.date, stub.date)
			assert.Equal(t, tt.slot, stub.slot)
		})
	}
}

func TestAssignBooking(t *testing.T) {
	bookingID, techID := uuid.New(), uuid.New()
	body := fmt.Sprintf(`{"booking_id":%q,"technician_id":%q}`, bookingID, techID)

	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"assigned", body, nil, http.StatusOK},
		{"missing technician", `{"booking_id":"` + bookingID.String() + `"}`, nil, http.StatusBadRequest},
		{"busy", body, usecase.ErrTechnicianBusy, http.StatusConflict},
		{"unknown technician", body, usecase.ErrTechnicianNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTechnicianHandler(&stubTechnicianUsecase{}, &stubAssignmentUsecase{err: tt.err}, validator.NewValidator())
			rec := httptest.NewRecorder()

			h.AssignBooking(rec, newRequest(http.MethodPut, "/api/v1/technicians/assign-booking", tt.body, &adminActor))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
