package repository

import (
	"context"

	"wrenchway-api/internal/domain/entity"

	"github.com/google/uuid"
)

// ServiceRepository is read-only access to the service catalog.
type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Service, error)
	FindAllActive(ctx context.Context) ([]entity.Service, error)
}
