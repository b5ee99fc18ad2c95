package usecase

import (
	"context"
	"time"

	"wrenchway-api/internal/converter"
	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type CatalogUsecase interface {
	ListServices(ctx context.Context) ([]dto.ServiceResponse, error)
}

type catalogUsecase struct {
	log          *logrus.Logger
	serviceRepo  repository.ServiceRepository
	queryTimeout time.Duration
}

func NewCatalogUsecase(log *logrus.Logger, serviceRepo repository.ServiceRepository, queryTimeout time.Duration) CatalogUsecase {
	return &catalogUsecase{
		log:          log,
		serviceRepo:  serviceRepo,
		queryTimeout: queryTimeout,
	}
}

func (u *catalogUsecase) ListServices(ctx context.Context) ([]dto.ServiceResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	services, err := u.serviceRepo.FindAllActive(ctx)
	if err != nil {
		u.log.Warnf("Failed to find services: %+v", err)
		return nil, err
	}

	return converter.ServicesToResponses(services), nil
}
