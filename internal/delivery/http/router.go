package http

import (
	"net/http"

	"wrenchway-api/internal/delivery/http/handler"
	"wrenchway-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	serviceHandler    *handler.ServiceHandler
	bookingHandler    *handler.BookingHandler
	technicianHandler *handler.TechnicianHandler
	auditLogHandler   *handler.AuditLogHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	serviceHandler *handler.ServiceHandler,
	bookingHandler *handler.BookingHandler,
	technicianHandler *handler.TechnicianHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		serviceHandler:    serviceHandler,
		bookingHandler:    bookingHandler,
		technicianHandler: technicianHandler,
		auditLogHandler:   auditLogHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)
	authProtected.HandleFunc("/me", r.authHandler.UpdateCurrentUser).Methods(http.MethodPut)

	// Service catalog (public)
	api.HandleFunc("/services", r.serviceHandler.GetServices).Methods(http.MethodGet)

	// Booking routes (protected, scoped per role by the use case)
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Use(r.authMiddleware.Authenticate)
	bookings.Handle("", middleware.RequireCustomerOrAdmin(http.HandlerFunc(r.bookingHandler.CreateBooking))).Methods(http.MethodPost)
	bookings.HandleFunc("", r.bookingHandler.GetAllBookings).Methods(http.MethodGet)
	// Fixed paths must be registered before {id}
	bookings.Handle("/my-bookings", middleware.RequireCustomer(http.HandlerFunc(r.bookingHandler.GetMyBookings))).Methods(http.MethodGet)
	bookings.Handle("/assigned", middleware.RequireTechnician(http.HandlerFunc(r.bookingHandler.GetAssignedBookings))).Methods(http.MethodGet)
	bookings.HandleFunc("/{id}", r.bookingHandler.GetBooking).Methods(http.MethodGet)
	bookings.HandleFunc("/{id}/status", r.bookingHandler.UpdateBookingStatus).Methods(http.MethodPut)
	bookings.HandleFunc("/{id}/schedule", r.bookingHandler.RescheduleBooking).Methods(http.MethodPut)
	bookings.HandleFunc("/{id}", r.bookingHandler.CancelBooking).Methods(http.MethodDelete)

	// Technician management (admin)
	technicians := api.PathPrefix("/technicians").Subrouter()
	technicians.Use(r.authMiddleware.Authenticate)
	technicians.Use(middleware.RequireAdmin)
	technicians.HandleFunc("", r.technicianHandler.GetAllTechnicians).Methods(http.MethodGet)
	technicians.HandleFunc("", r.technicianHandler.CreateTechnician).Methods(http.MethodPost)
	technicians.HandleFunc("/available", r.technicianHandler.GetAvailableTechnicians).Methods(http.MethodGet)
	technicians.HandleFunc("/assign-booking", r.technicianHandler.AssignBooking).Methods(http.MethodPut)
	technicians.HandleFunc("/{id}", r.technicianHandler.GetTechnician).Methods(http.MethodGet)
	technicians.HandleFunc("/{id}", r.technicianHandler.UpdateTechnician).Methods(http.MethodPut)
	technicians.HandleFunc("/{id}", r.technicianHandler.DeleteTechnician).Methods(http.MethodDelete)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Preflight requests match no method-restricted route, so give them one
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
