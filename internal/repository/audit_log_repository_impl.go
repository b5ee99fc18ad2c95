package repository

import (
	"context"
	"errors"

	"wrenchway-api/internal/domain/entity"
	domainRepo "wrenchway-api/internal/domain/repository"
	"wrenchway-api/internal/infrastructure/database"

	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) domainRepo.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return classifyError(database.Conn(ctx, r.db).Create(log).Error)
}

func (r *auditLogRepository) FindAll(ctx context.Context, filter entity.AuditLogFilter, limit, offset int) ([]entity.AuditLog, int64, error) {
	var logs []entity.AuditLog
	var total int64

	query := database.Conn(ctx, r.db).Model(&entity.AuditLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Entity != "" {
		query = query.Where("metadata->>'entity' = ?", filter.Entity)
	}
	if filter.EntityID != "" {
		query = query.Where("metadata->>'entity_id' = ?", filter.EntityID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, classifyError(err)
	}

	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, classifyError(err)
	}
	return logs, total, nil
}

func (r *auditLogRepository) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	err := database.Conn(ctx, r.db).Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classifyError(err)
	}
	return &log, nil
}
