package handler

import (
	"net/http"

	"wrenchway-api/internal/usecase"
	"wrenchway-api/pkg/response"
)

type ServiceHandler struct {
	catalogUsecase usecase.CatalogUsecase
}

func NewServiceHandler(catalogUsecase usecase.CatalogUsecase) *ServiceHandler {
	return &ServiceHandler{catalogUsecase: catalogUsecase}
}

func (h *ServiceHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogUsecase.ListServices(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get services")
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}
