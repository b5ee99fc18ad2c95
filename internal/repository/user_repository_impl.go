package repository

import (
	"context"
	"errors"

	"wrenchway-api/internal/domain/entity"
	domainRepo "wrenchway-api/internal/domain/repository"
	"wrenchway-api/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return classifyError(database.Conn(ctx, r.db).Create(user).Error)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(database.Conn(ctx, r.db).Where("email = ?", email))
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.first(database.Conn(ctx, r.db).Where("id = ?", id))
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []entity.User
	if err := database.Conn(ctx, r.db).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, classifyError(err)
	}
	return users, nil
}

func (r *userRepository) FindByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	var users []entity.User
	err := database.Conn(ctx, r.db).Where("role = ?", role).Order("name ASC").Find(&users).Error
	if err != nil {
		return nil, classifyError(err)
	}
	return users, nil
}

func (r *userRepository) LockByID(ctx context.Context, id uuid.UUID, exclusive bool) (*entity.User, error) {
	strength := "SHARE"
	if exclusive {
		strength = "UPDATE"
	}
	return r.first(database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: strength}).
		Where("id = ?", id))
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return classifyError(database.Conn(ctx, r.db).Save(user).Error)
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := database.Conn(ctx, r.db).Where("id = ?", id).Delete(&entity.User{})
	return result.RowsAffected, classifyError(result.Error)
}

func (r *userRepository) first(query *gorm.DB) (*entity.User, error) {
	var user entity.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classifyError(err)
	}
	return &user, nil
}
