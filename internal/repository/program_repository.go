package repository

import (
	"context"

	"github.com/stemsi/academia-backend/internal/database"
	"github.com/stemsi/academia-backend/internal/model"
)

type ProgramRepository interface {
	GetAll(ctx context.Context) ([]model.Program, error)
	GetByID(ctx context.Context, id int) (model.Program, error)
	GetByName(ctx context.Context, name string) (model.Program, error)
	Create(ctx context.Context, program model.Program) (model.Program, error)
	// FirstOrCreate returns the program with the same name or creates it.
	FirstOrCreate(ctx context.Context, program model.Program) (model.Program, bool, error)
	Update(ctx context.Context, id int, patch model.ProgramPatch) (model.Program, error)
	Delete(ctx context.Context, id int) error
}

type programRepository struct {
	table *database.Table[model.Program]
}

func NewProgramRepository(latency database.Latency) ProgramRepository {
	return &programRepository{table: database.NewTable[model.Program]("program", latency)}
}

func (r *programRepository) GetAll(ctx context.Context) ([]model.Program, error) {
	return r.table.List(ctx)
}

func (r *programRepository) GetByID(ctx context.Context, id int) (model.Program, error) {
	return r.table.Get(ctx, id)
}

func (r *programRepository) GetByName(ctx context.Context, name string) (model.Program, error) {
	return r.table.GetByKey(ctx, name)
}

func (r *programRepository) Create(ctx context.Context, program model.Program) (model.Program, error) {
	return r.table.Insert(ctx, program)
}

func (r *programRepository) FirstOrCreate(ctx context.Context, program model.Program) (model.Program, bool, error) {
	return r.table.FirstOrCreate(ctx, program)
}

func (r *programRepository) Update(ctx context.Context, id int, patch model.ProgramPatch) (model.Program, error) {
	return r.table.Update(ctx, id, func(cur model.Program, _ []model.Program) (model.Program, error) {
		return patch.Apply(cur), nil
	})
}

func (r *programRepository) Delete(ctx context.Context, id int) error {
	return r.table.Delete(ctx, id)
}
