package repository

import (
	"context"
	"errors"

	"wrenchway-api/internal/domain/entity"
	domainRepo "wrenchway-api/internal/domain/repository"
	"wrenchway-api/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) domainRepo.ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	var service entity.Service
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classifyError(err)
	}
	return &service, nil
}

func (r *serviceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var services []entity.Service
	if err := database.Conn(ctx, r.db).Where("id IN ?", ids).Find(&services).Error; err != nil {
		return nil, classifyError(err)
	}
	return services, nil
}

func (r *serviceRepository) FindAllActive(ctx context.Context) ([]entity.Service, error) {
	var services []entity.Service
	err := database.Conn(ctx, r.db).
		Where("is_active = ?", true).
		Order("category ASC, name ASC").
		Find(&services).Error
	if err != nil {
		return nil, classifyError(err)
	}
	return services, nil
}
