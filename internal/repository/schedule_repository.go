package repository

import (
	"context"

	"github.com/stemsi/academia-backend/internal/database"
	"github.com/stemsi/academia-backend/internal/model"
)

// ScheduleCheck builds the schedule to store after validating it against the
// other stored schedules. It runs inside the table's critical section.
type ScheduleCheck func(others []model.Schedule) (model.Schedule, error)

// ScheduleUpdate is ScheduleCheck for an existing row, which it also receives.
type ScheduleUpdate func(current model.Schedule, others []model.Schedule) (model.Schedule, error)

type ScheduleRepository interface {
	GetAll(ctx context.Context) ([]model.Schedule, error)
	GetByID(ctx context.Context, id int) (model.Schedule, error)
	GetByCourse(ctx context.Context, courseID int) ([]model.Schedule, error)
	CreateChecked(ctx context.Context, check ScheduleCheck) (model.Schedule, error)
	UpdateChecked(ctx context.Context, id int, update ScheduleUpdate) (model.Schedule, error)
	Delete(ctx context.Context, id int) error
	DeleteByCourse(ctx context.Context, courseID int) (int, error)
	CountByClassroom(ctx context.Context, classroomID int) (int, error)
}

type scheduleRepository struct {
	table *database.Table[model.Schedule]
}

func NewScheduleRepository(latency database.Latency) ScheduleRepository {
	return &scheduleRepository{table: database.NewTable[model.Schedule]("schedule", latency)}
}

func (r *scheduleRepository) GetAll(ctx context.Context) ([]model.Schedule, error) {
	return r.table.List(ctx)
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int) (model.Schedule, error) {
	return r.table.Get(ctx, id)
}

// GetByCourse filters the global list, so results keep store order.
func (r *scheduleRepository) GetByCourse(ctx context.Context, courseID int) ([]model.Schedule, error) {
	all, err := r.table.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Schedule, 0, len(all))
	for _, s := range all {
		if s.CourseID == courseID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *scheduleRepository) CreateChecked(ctx context.Context, check ScheduleCheck) (model.Schedule, error) {
	return r.table.InsertChecked(ctx, check)
}

func (r *scheduleRepository) UpdateChecked(ctx context.Context, id int, update ScheduleUpdate) (model.Schedule, error) {
	return r.table.Update(ctx, id, update)
}

func (r *scheduleRepository) Delete(ctx context.Context, id int) error {
	return r.table.Delete(ctx, id)
}

func (r *scheduleRepository) DeleteByCourse(ctx context.Context, courseID int) (int, error) {
	return r.table.DeleteWhere(ctx, func(s model.Schedule) bool { return s.CourseID == courseID })
}

func (r *scheduleRepository) CountByClassroom(ctx context.Context, classroomID int) (int, error) {
	all, err := r.table.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range all {
		if s.ClassroomID == classroomID {
			n++
		}
	}
	return n, nil
}
