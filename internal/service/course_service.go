package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
)

// CourseService handles course records outside the full-course view.
type CourseService struct {
	courseRepo        repository.CourseRepository
	scheduleRepo      repository.ScheduleRepository
	courseProgramRepo repository.CourseProgramRepository
	locks             *repository.Locks
	events            EventPublisher
	log               zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(repos *repository.Repositories, events EventPublisher, log zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo:        repos.Course,
		scheduleRepo:      repos.Schedule,
		courseProgramRepo: repos.CourseProgram,
		locks:             repos.Locks,
		events:            events,
		log:               log.With().Str("component", "course_service").Logger(),
	}
}

// GetByID retrieves a course record by its ID.
func (s *CourseService) GetByID(ctx context.Context, id int) (model.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// Delete removes a course together with its program relations and
// schedules. It waits for any save of the same course to finish.
func (s *CourseService) Delete(ctx context.Context, id int) error {
	unlock, err := s.locks.Course.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}

	rels, err := s.courseProgramRepo.DeleteByCourse(ctx, id)
	if err != nil {
		return err
	}
	schedules, err := s.scheduleRepo.DeleteByCourse(ctx, id)
	if err != nil {
		return err
	}

	s.log.Info().Int("course_id", id).Int("relations", rels).Int("schedules", schedules).Msg("Course deleted")
	notify(ctx, s.events, s.log, EventCourseDeleted, id)
	return nil
}
