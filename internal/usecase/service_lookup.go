package usecase

import (
	"context"

	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/internal/domain/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// serviceLookup collapses concurrent lookups of the same catalog entry into
// one query.
type serviceLookup struct {
	serviceRepo repository.ServiceRepository
	group       singleflight.Group
}

func newServiceLookup(serviceRepo repository.ServiceRepository) *serviceLookup {
	return &serviceLookup{serviceRepo: serviceRepo}
}

// get returns nil, nil when the service does not exist.
func (l *serviceLookup) get(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	v, err, _ := l.group.Do(id.String(), func() (interface{}, error) {
		return l.serviceRepo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	svc, _ := v.(*entity.Service)
	if svc == nil {
		return nil, nil
	}
	// Callers share the result; hand each its own copy.
	copied := *svc
	return &copied, nil
}
