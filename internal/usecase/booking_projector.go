package usecase

import (
	"context"

	"wrenchway-api/internal/converter"
	"wrenchway-api/internal/delivery/dto"
	"wrenchway-api/internal/domain/entity"
	"wrenchway-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

// bookingProjector builds the read view of bookings with customer, service
// and technician embedded.
type bookingProjector struct {
	userRepo    repository.UserRepository
	serviceRepo repository.ServiceRepository
}

func newBookingProjector(userRepo repository.UserRepository, serviceRepo repository.ServiceRepository) *bookingProjector {
	return &bookingProjector{userRepo: userRepo, serviceRepo: serviceRepo}
}

func (p *bookingProjector) project(ctx context.Context, booking *entity.Booking) (*dto.BookingResponse, error) {
	responses, err := p.projectAll(ctx, []entity.Booking{*booking})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// projectAll loads the related rows for the whole page in two batched
// queries that run concurrently.
func (p *bookingProjector) projectAll(ctx context.Context, bookings []entity.Booking) ([]dto.BookingResponse, error) {
	responses := converter.BookingsToResponses(bookings)
	if len(bookings) == 0 {
		return responses, nil
	}

	userIDs := make([]uuid.UUID, 0, len(bookings)*2)
	serviceIDs := make([]uuid.UUID, 0, len(bookings))
	seenUsers := make(map[uuid.UUID]struct{})
	seenServices := make(map[uuid.UUID]struct{})
	addOnce := func(seen map[uuid.UUID]struct{}, ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
		if _, ok := seen[id]; ok {
			return ids
		}
		seen[id] = struct{}{}
		return append(ids, id)
	}
	for i := range bookings {
		userIDs = addOnce(seenUsers, userIDs, bookings[i].CustomerID)
		if bookings[i].TechnicianID != nil {
			userIDs = addOnce(seenUsers, userIDs, *bookings[i].TechnicianID)
		}
		serviceIDs = addOnce(seenServices, serviceIDs, bookings[i].ServiceID)
	}

	var (
		users    []entity.User
		services []entity.Service
	)
	group := pool.New().WithContext(ctx).WithCancelOnError()
	group.Go(func(ctx context.Context) error {
		found, err := p.userRepo.FindByIDs(ctx, userIDs)
		users = found
		return err
	})
	group.Go(func(ctx context.Context) error {
		found, err := p.serviceRepo.FindByIDs(ctx, serviceIDs)
		services = found
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	usersByID := make(map[uuid.UUID]*entity.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}
	servicesByID := make(map[uuid.UUID]*entity.Service, len(services))
	for i := range services {
		servicesByID[services[i].ID] = &services[i]
	}

	for i := range responses {
		r := &responses[i]
		if u, ok := usersByID[r.CustomerID]; ok {
			r.Customer = converter.UserToSummary(u)
		}
		if s, ok := servicesByID[r.ServiceID]; ok {
			r.Service = converter.ServiceToResponse(s)
		}
		if r.TechnicianID != nil {
			if u, ok := usersByID[*r.TechnicianID]; ok {
				r.Technician = converter.UserToSummary(u)
			}
		}
	}

	return responses, nil
}
