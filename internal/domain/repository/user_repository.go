package repository

import (
	"context"

	"wrenchway-api/internal/domain/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error)
	// FindByRole returns users of role ordered by name.
	FindByRole(ctx context.Context, role entity.Role) ([]entity.User, error)
	// LockByID loads a user and row-locks it until the surrounding transaction
	// ends. exclusive selects FOR UPDATE instead of FOR SHARE.
	LockByID(ctx context.Context, id uuid.UUID, exclusive bool) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}
