package repository

import (
	"context"

	"github.com/stemsi/academia-backend/internal/database"
	"github.com/stemsi/academia-backend/internal/model"
)

type CourseRepository interface {
	GetAll(ctx context.Context) ([]model.Course, error)
	GetByID(ctx context.Context, id int) (model.Course, error)
	GetByName(ctx context.Context, name string) (model.Course, error)
	Create(ctx context.Context, course model.Course) (model.Course, error)
	Update(ctx context.Context, id int, patch model.CoursePatch) (model.Course, error)
	Delete(ctx context.Context, id int) error
}

type courseRepository struct {
	table *database.Table[model.Course]
}

func NewCourseRepository(latency database.Latency) CourseRepository {
	return &courseRepository{table: database.NewTable[model.Course]("course", latency)}
}

func (r *courseRepository) GetAll(ctx context.Context) ([]model.Course, error) {
	return r.table.List(ctx)
}

func (r *courseRepository) GetByID(ctx context.Context, id int) (model.Course, error) {
	return r.table.Get(ctx, id)
}

func (r *courseRepository) GetByName(ctx context.Context, name string) (model.Course, error) {
	return r.table.GetByKey(ctx, name)
}

func (r *courseRepository) Create(ctx context.Context, course model.Course) (model.Course, error) {
	return r.table.Insert(ctx, course)
}

func (r *courseRepository) Update(ctx context.Context, id int, patch model.CoursePatch) (model.Course, error) {
	return r.table.Update(ctx, id, func(cur model.Course, _ []model.Course) (model.Course, error) {
		return patch.Apply(cur), nil
	})
}

func (r *courseRepository) Delete(ctx context.Context, id int) error {
	return r.table.Delete(ctx, id)
}
