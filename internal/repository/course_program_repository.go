package repository

import (
	"context"

	"github.com/stemsi/academia-backend/internal/database"
	"github.com/stemsi/academia-backend/internal/model"
)

type CourseProgramRepository interface {
	Add(ctx context.Context, courseID, programID int) error
	Remove(ctx context.Context, courseID, programID int) error
	GetByCourse(ctx context.Context, courseID int) ([]model.CourseProgram, error)
	GetByProgram(ctx context.Context, programID int) ([]model.CourseProgram, error)
	DeleteByCourse(ctx context.Context, courseID int) (int, error)
	DeleteByProgram(ctx context.Context, programID int) (int, error)
}

type courseProgramRepository struct {
	pairs *database.PairSet
}

func NewCourseProgramRepository(latency database.Latency) CourseProgramRepository {
	return &courseProgramRepository{pairs: database.NewPairSet("course_program", latency)}
}

func (r *courseProgramRepository) Add(ctx context.Context, courseID, programID int) error {
	return r.pairs.Add(ctx, courseID, programID)
}

func (r *courseProgramRepository) Remove(ctx context.Context, courseID, programID int) error {
	return r.pairs.Remove(ctx, courseID, programID)
}

func (r *courseProgramRepository) GetByCourse(ctx context.Context, courseID int) ([]model.CourseProgram, error) {
	pairs, err := r.pairs.ByLeft(ctx, courseID)
	return toCoursePrograms(pairs), err
}

func (r *courseProgramRepository) GetByProgram(ctx context.Context, programID int) ([]model.CourseProgram, error) {
	pairs, err := r.pairs.ByRight(ctx, programID)
	return toCoursePrograms(pairs), err
}

func (r *courseProgramRepository) DeleteByCourse(ctx context.Context, courseID int) (int, error) {
	return r.pairs.RemoveLeft(ctx, courseID)
}

func (r *courseProgramRepository) DeleteByProgram(ctx context.Context, programID int) (int, error) {
	return r.pairs.RemoveRight(ctx, programID)
}

func toCoursePrograms(pairs []database.Pair) []model.CourseProgram {
	out := make([]model.CourseProgram, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, model.CourseProgram{CourseID: p.Left, ProgramID: p.Right})
	}
	return out
}
