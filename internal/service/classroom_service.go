package service

import (
	"context"
	"fmt"

	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
)

// ClassroomService handles classroom business logic.
type ClassroomService struct {
	classroomRepo repository.ClassroomRepository
	scheduleRepo  repository.ScheduleRepository
	locks         *repository.Locks
}

// NewClassroomService creates a new ClassroomService.
func NewClassroomService(repos *repository.Repositories) *ClassroomService {
	return &ClassroomService{classroomRepo: repos.Classroom, scheduleRepo: repos.Schedule, locks: repos.Locks}
}

func (s *ClassroomService) List(ctx context.Context) ([]model.Classroom, error) {
	return s.classroomRepo.GetAll(ctx)
}

func (s *ClassroomService) GetByID(ctx context.Context, id int) (model.Classroom, error) {
	return s.classroomRepo.GetByID(ctx, id)
}

func (s *ClassroomService) Create(ctx context.Context, req model.CreateClassroomRequest) (model.Classroom, error) {
	name, err := cleanName("classroom", req.Name)
	if err != nil {
		return model.Classroom{}, err
	}
	return s.classroomRepo.Create(ctx, model.Classroom{
		Name:     name,
		Capacity: req.Capacity,
	})
}

func (s *ClassroomService) Update(ctx context.Context, id int, patch model.ClassroomPatch) (model.Classroom, error) {
	if patch.Name != nil {
		name, err := cleanName("classroom", *patch.Name)
		if err != nil {
			return model.Classroom{}, err
		}
		patch.Name = &name
	}
	return s.classroomRepo.Update(ctx, id, patch)
}

// Delete removes a classroom. A classroom still used by a schedule is kept.
// Schedule writers hold the same classroom lock, so none can slip in between
// the check and the delete.
func (s *ClassroomService) Delete(ctx context.Context, id int) error {
	unlock, err := s.locks.Classroom.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.classroomRepo.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.scheduleRepo.CountByClassroom(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("classroom %d is used by %d schedules: %w", id, n, model.ErrConflict)
	}
	return s.classroomRepo.Delete(ctx, id)
}
