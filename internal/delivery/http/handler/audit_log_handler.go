package handler

import (
	"net/http"
	"strconv"

	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/usecase"
	"wrenchway-api/pkg/response"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	auditLogID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		writeError(w, err, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// GetAllAuditLogs handles ?action=&user_id=&entity=&entity_id=&page=&limit=
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUUID(r, "user_id")
	if err != nil {
		response.BadRequest(w, "Invalid user_id")
		return
	}

	q := r.URL.Query()
	query := dto.AuditLogListQuery{
		Action:   q.Get("action"),
		UserID:   userID,
		Entity:   q.Get("entity"),
		EntityID: q.Get("entity_id"),
	}

	page, limit := pagination(r, maxPageSize)
	auditLogs, total, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), query, page, limit)
	if err != nil {
		writeError(w, err, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs, response.NewMeta(page, limit, total))
}
