package converter

import (
	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/domain/entity"
)

func ServiceToResponse(service *entity.Service) *dto.ServiceResponse {
	if service == nil {
		return nil
	}

	return &dto.ServiceResponse{
		ID:                service.ID,
		Name:              service.Name,
		Category:          service.Category,
		Description:       service.Description,
		BasePrice:         service.BasePrice,
		EstimatedDuration: service.EstimatedDuration,
	}
}

func ServicesToResponses(services []entity.Service) []dto.ServiceResponse {
	responses := make([]dto.ServiceResponse, len(services))
	for i := range services {
		responses[i] = *ServiceToResponse(&services[i])
	}
	return responses
}
