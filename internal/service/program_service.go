package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
)

// ProgramService handles program business logic.
type ProgramService struct {
	programRepo       repository.ProgramRepository
	courseProgramRepo repository.CourseProgramRepository
}

// NewProgramService creates a new ProgramService.
func NewProgramService(repos *repository.Repositories) *ProgramService {
	return &ProgramService{programRepo: repos.Program, courseProgramRepo: repos.CourseProgram}
}

func (s *ProgramService) List(ctx context.Context) ([]model.Program, error) {
	return s.programRepo.GetAll(ctx)
}

func (s *ProgramService) GetByID(ctx context.Context, id int) (model.Program, error) {
	return s.programRepo.GetByID(ctx, id)
}

func (s *ProgramService) Create(ctx context.Context, req model.CreateProgramRequest) (model.Program, error) {
	name, err := cleanName("program", req.Name)
	if err != nil {
		return model.Program{}, err
	}
	return s.programRepo.Create(ctx, model.Program{
		Name:        name,
		Description: req.Description,
	})
}

func (s *ProgramService) Update(ctx context.Context, id int, patch model.ProgramPatch) (model.Program, error) {
	if patch.Name != nil {
		name, err := cleanName("program", *patch.Name)
		if err != nil {
			return model.Program{}, err
		}
		patch.Name = &name
	}
	return s.programRepo.Update(ctx, id, patch)
}

// CourseIDs lists the courses linked to a program.
func (s *ProgramService) CourseIDs(ctx context.Context, id int) ([]int, error) {
	if _, err := s.programRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	rels, err := s.courseProgramRepo.GetByProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(rels))
	for _, r := range rels {
		ids = append(ids, r.CourseID)
	}
	return ids, nil
}

// Delete removes a program and unlinks it from every course.
func (s *ProgramService) Delete(ctx context.Context, id int) error {
	if err := s.programRepo.Delete(ctx, id); err != nil {
		return err
	}
	_, err := s.courseProgramRepo.DeleteByProgram(ctx, id)
	return err
}

// cleanName trims a unique name. Blank names are rejected since they would
// bypass the name index.
func cleanName(kind, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%s name is required: %w", kind, model.ErrValidation)
	}
	return name, nil
}
