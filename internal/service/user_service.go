package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
)

// UserService handles user accounts.
type UserService struct {
	userRepo    repository.UserRepository
	courseRepo  repository.CourseRepository
	locks       *repository.Locks
	authService *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(repos *repository.Repositories, authService *AuthService) *UserService {
	return &UserService{userRepo: repos.User, courseRepo: repos.Course, locks: repos.Locks, authService: authService}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.GetAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int) (model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Create hashes the password and stores the account. Emails are unique.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.Create(ctx, model.User{
		Roles:        req.Roles,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
	})
}

// Delete removes an account. Users that still own courses are kept. Course
// creation holds the owner's lock, so no course can appear between the check
// and the delete.
func (s *UserService) Delete(ctx context.Context, id int) error {
	unlock, err := s.locks.User.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	courses, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, c := range courses {
		if c.OwnerUserID == id {
			return fmt.Errorf("user %d owns course %d: %w", id, c.ID, model.ErrConflict)
		}
	}
	return s.userRepo.Delete(ctx, id)
}
