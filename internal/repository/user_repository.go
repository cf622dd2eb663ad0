package repository

import (
	"context"

	"github.com/stemsi/academia-backend/internal/database"
	"github.com/stemsi/academia-backend/internal/model"
)

type UserRepository interface {
	GetAll(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, user model.User) (model.User, error)
	Delete(ctx context.Context, id int) error
}

type userRepository struct {
	table *database.Table[model.User]
}

func NewUserRepository(latency database.Latency) UserRepository {
	return &userRepository{table: database.NewTable[model.User]("user", latency)}
}

func (r *userRepository) GetAll(ctx context.Context) ([]model.User, error) {
	return r.table.List(ctx)
}

func (r *userRepository) GetByID(ctx context.Context, id int) (model.User, error) {
	return r.table.Get(ctx, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.table.GetByKey(ctx, email)
}

func (r *userRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	return r.table.Insert(ctx, user)
}

func (r *userRepository) Delete(ctx context.Context, id int) error {
	return r.table.Delete(ctx, id)
}
