package repository

import (
	"context"

	"github.com/stemsi/academia-backend/internal/database"
	"github.com/stemsi/academia-backend/internal/model"
)

type ClassroomRepository interface {
	GetAll(ctx context.Context) ([]model.Classroom, error)
	GetByID(ctx context.Context, id int) (model.Classroom, error)
	GetByName(ctx context.Context, name string) (model.Classroom, error)
	Create(ctx context.Context, classroom model.Classroom) (model.Classroom, error)
	Update(ctx context.Context, id int, patch model.ClassroomPatch) (model.Classroom, error)
	Delete(ctx context.Context, id int) error
}

type classroomRepository struct {
	table *database.Table[model.Classroom]
}

func NewClassroomRepository(latency database.Latency) ClassroomRepository {
	return &classroomRepository{table: database.NewTable[model.Classroom]("classroom", latency)}
}

func (r *classroomRepository) GetAll(ctx context.Context) ([]model.Classroom, error) {
	return r.table.List(ctx)
}

func (r *classroomRepository) GetByID(ctx context.Context, id int) (model.Classroom, error) {
	return r.table.Get(ctx, id)
}

func (r *classroomRepository) GetByName(ctx context.Context, name string) (model.Classroom, error) {
	return r.table.GetByKey(ctx, name)
}

func (r *classroomRepository) Create(ctx context.Context, classroom model.Classroom) (model.Classroom, error) {
	return r.table.Insert(ctx, classroom)
}

func (r *classroomRepository) Update(ctx context.Context, id int, patch model.ClassroomPatch) (model.Classroom, error) {
	return r.table.Update(ctx, id, func(cur model.Classroom, _ []model.Classroom) (model.Classroom, error) {
		return patch.Apply(cur), nil
	})
}

func (r *classroomRepository) Delete(ctx context.Context, id int) error {
	return r.table.Delete(ctx, id)
}
