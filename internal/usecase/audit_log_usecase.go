package usecase

import (
	"context"
	"time"

	"wrenchway-api/internal/converter"
	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, query dto.AuditLogListQuery, page, limit int) ([]dto.AuditLogResponse, int64, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
	queryTimeout time.Duration
}

func NewAuditLogUsecase(
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
	queryTimeout time.Duration,
) AuditLogUsecase {
	return &auditLogUsecase{
		log:          log,
		auditLogRepo: auditLogRepo,
		queryTimeout: queryTimeout,
	}
}

// GetAllAuditLogs lists entries newest first. Filtering by entity id gives the
// full history of one booking or technician.
func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, query dto.AuditLogListQuery, page, limit int) ([]dto.AuditLogResponse, int64, error) {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = maxPageSize
	}

	filter := entity.AuditLogFilter{
		Action:   query.Action,
		UserID:   query.UserID,
		Entity:   query.Entity,
		EntityID: query.EntityID,
	}

	logs, total, err := u.auditLogRepo.FindAll(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, 0, err
	}

	return converter.AuditLogsToResponses(logs), total, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	ctx, cancel := withQueryTimeout(ctx, u.queryTimeout)
	defer cancel()

	auditLog, err := u.auditLogRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
