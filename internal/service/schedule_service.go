package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
)

// ScheduleService edits schedules outside a full-course save.
type ScheduleService struct {
	scheduleRepo  repository.ScheduleRepository
	courseRepo    repository.CourseRepository
	classroomRepo repository.ClassroomRepository
	locks         *repository.Locks
	events        EventPublisher
	log           zerolog.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(repos *repository.Repositories, events EventPublisher, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		scheduleRepo:  repos.Schedule,
		courseRepo:    repos.Course,
		classroomRepo: repos.Classroom,
		locks:         repos.Locks,
		events:        events,
		log:           log.With().Str("component", "schedule_service").Logger(),
	}
}

// List returns every schedule, or only the course's when courseID is set.
func (s *ScheduleService) List(ctx context.Context, courseID int) ([]model.Schedule, error) {
	if courseID != 0 {
		return s.scheduleRepo.GetByCourse(ctx, courseID)
	}
	return s.scheduleRepo.GetAll(ctx)
}

// GetByID retrieves a schedule by its ID.
func (s *ScheduleService) GetByID(ctx context.Context, id int) (model.Schedule, error) {
	return s.scheduleRepo.GetByID(ctx, id)
}

// Create validates and stores a new schedule. The course and classroom must
// exist and the slot must be free. The course and classroom stay locked
// until the schedule is stored, so neither can be deleted underneath it.
func (s *ScheduleService) Create(ctx context.Context, in model.ScheduleInput) (model.Schedule, error) {
	unlock, err := s.lockCourse(ctx, in.CourseID)
	if err != nil {
		return model.Schedule{}, err
	}
	defer unlock()

	var created model.Schedule
	err = withClassroom(ctx, s.locks, s.classroomRepo, in.RoomID(), func() error {
		var err error
		created, err = s.scheduleRepo.CreateChecked(ctx, func(others []model.Schedule) (model.Schedule, error) {
			return CheckSchedule(in, 0, others)
		})
		return err
	})
	if err != nil {
		return model.Schedule{}, err
	}

	notify(ctx, s.events, s.log, EventScheduleChanged, created.CourseID)
	return created, nil
}

// Update merges patch into the stored schedule and re-runs the conflict
// check against every other schedule.
func (s *ScheduleService) Update(ctx context.Context, id int, patch model.SchedulePatch) (model.Schedule, error) {
	if patch.CourseID != nil {
		unlock, err := s.lockCourse(ctx, *patch.CourseID)
		if err != nil {
			return model.Schedule{}, err
		}
		defer unlock()
	}

	var previousCourse int
	var updated model.Schedule
	write := func() error {
		var err error
		updated, err = s.scheduleRepo.UpdateChecked(ctx, id, func(cur model.Schedule, others []model.Schedule) (model.Schedule, error) {
			previousCourse = cur.CourseID
			return CheckSchedule(patch.Apply(cur), id, others)
		})
		return err
	}

	var err error
	if patch.ClassroomID != nil {
		err = withClassroom(ctx, s.locks, s.classroomRepo, *patch.ClassroomID, write)
	} else {
		err = write()
	}
	if err != nil {
		return model.Schedule{}, err
	}

	notify(ctx, s.events, s.log, EventScheduleChanged, updated.CourseID)
	if previousCourse != updated.CourseID {
		notify(ctx, s.events, s.log, EventScheduleChanged, previousCourse)
	}
	return updated, nil
}

// Delete removes a schedule.
func (s *ScheduleService) Delete(ctx context.Context, id int) error {
	sch, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		return err
	}

	notify(ctx, s.events, s.log, EventScheduleChanged, sch.CourseID)
	return nil
}

// lockCourse takes the course lock and checks the course still exists.
func (s *ScheduleService) lockCourse(ctx context.Context, courseID int) (func(), error) {
	unlock, err := s.locks.Course.Lock(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		unlock()
		return nil, fmt.Errorf("schedule course: %w", err)
	}
	return unlock, nil
}

// withClassroom runs write while holding the classroom lock, after checking
// the classroom exists. A zero id is a validation error.
func withClassroom(ctx context.Context, locks *repository.Locks, classrooms repository.ClassroomRepository, roomID int, write func() error) error {
	if roomID == 0 {
		return fmt.Errorf("classroom is required: %w", model.ErrValidation)
	}
	unlock, err := locks.Classroom.Lock(ctx, roomID)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := classrooms.GetByID(ctx, roomID); err != nil {
		return fmt.Errorf("schedule classroom %d: %w", roomID, err)
	}
	return write()
}
