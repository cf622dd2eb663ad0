package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

// CourseAggregator builds the full-course read view from store state.
type CourseAggregator struct {
	courseRepo        repository.CourseRepository
	programRepo       repository.ProgramRepository
	classroomRepo     repository.ClassroomRepository
	scheduleRepo      repository.ScheduleRepository
	userRepo          repository.UserRepository
	courseProgramRepo repository.CourseProgramRepository
	limit             int
	log               zerolog.Logger
}

// NewCourseAggregator creates a CourseAggregator. limit bounds the number of
// concurrent reads per fan-out; zero or less means unbounded.
func NewCourseAggregator(repos *repository.Repositories, limit int, log zerolog.Logger) *CourseAggregator {
	return &CourseAggregator{
		courseRepo:        repos.Course,
		programRepo:       repos.Program,
		classroomRepo:     repos.Classroom,
		scheduleRepo:      repos.Schedule,
		userRepo:          repos.User,
		courseProgramRepo: repos.CourseProgram,
		limit:             limit,
		log:               log.With().Str("component", "course_aggregator").Logger(),
	}
}

// GetFullCourse aggregates one course. It returns ErrNotFound for an unknown
// id and ErrInternal when the course references missing records.
func (a *CourseAggregator) GetFullCourse(ctx context.Context, id int) (model.FullCourse, error) {
	course, err := a.courseRepo.GetByID(ctx, id)
	if err != nil {
		return model.FullCourse{}, err
	}
	return a.aggregate(ctx, course)
}

// ListFullCourses aggregates every course in store order. A course whose
// aggregation hits ErrInternal is left out and logged; any other error
// fails the whole call.
func (a *CourseAggregator) ListFullCourses(ctx context.Context) ([]model.FullCourse, error) {
	courses, err := a.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	results, err := fanOut(ctx, a.limit, len(courses), func(ctx context.Context, i int) (*model.FullCourse, error) {
		full, err := a.aggregate(ctx, courses[i])
		if errors.Is(err, model.ErrInternal) {
			a.log.Warn().Err(err).Int("course_id", courses[i].ID).Msg("Omitting course with broken references")
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &full, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.FullCourse, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (a *CourseAggregator) aggregate(ctx context.Context, course model.Course) (model.FullCourse, error) {
	full := model.FullCourse{Course: course}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		programs, err := a.resolvePrograms(gctx, course.ID)
		full.Programs = programs
		return err
	})
	g.Go(func() error {
		schedules, err := a.resolveSchedules(gctx, course.ID)
		full.Schedules = schedules
		return err
	})
	g.Go(func() error {
		professor, err := a.resolveProfessor(gctx, course)
		full.Professor = professor
		return err
	})
	if err := g.Wait(); err != nil {
		return model.FullCourse{}, fmt.Errorf("aggregate course %d %q: %w", course.ID, course.Name, err)
	}
	return full, nil
}

// resolvePrograms maps the course's relation rows to programs. A row that
// points at a missing program is a dangling relation.
func (a *CourseAggregator) resolvePrograms(ctx context.Context, courseID int) ([]model.Program, error) {
	rels, err := a.courseProgramRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return fanOut(ctx, a.limit, len(rels), func(ctx context.Context, i int) (model.Program, error) {
		p, err := a.programRepo.GetByID(ctx, rels[i].ProgramID)
		if errors.Is(err, model.ErrNotFound) {
			return p, fmt.Errorf("dangling relation to program %d: %w", rels[i].ProgramID, model.ErrInternal)
		}
		return p, err
	})
}

// resolveSchedules embeds the classroom of each of the course's schedules.
// Each distinct classroom is fetched once.
func (a *CourseAggregator) resolveSchedules(ctx context.Context, courseID int) ([]model.ScheduleDetail, error) {
	schedules, err := a.scheduleRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var roomIDs []int
	seen := make(map[int]int)
	for _, s := range schedules {
		if _, ok := seen[s.ClassroomID]; !ok {
			seen[s.ClassroomID] = len(roomIDs)
			roomIDs = append(roomIDs, s.ClassroomID)
		}
	}

	rooms, err := fanOut(ctx, a.limit, len(roomIDs), func(ctx context.Context, i int) (model.Classroom, error) {
		c, err := a.classroomRepo.GetByID(ctx, roomIDs[i])
		if errors.Is(err, model.ErrNotFound) {
			return c, fmt.Errorf("schedule references missing classroom %d: %w", roomIDs[i], model.ErrInternal)
		}
		return c, err
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.ScheduleDetail, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, model.ScheduleDetail{Schedule: s, Classroom: rooms[seen[s.ClassroomID]]})
	}
	return out, nil
}

func (a *CourseAggregator) resolveProfessor(ctx context.Context, course model.Course) (model.Professor, error) {
	owner, err := a.userRepo.GetByID(ctx, course.OwnerUserID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Professor{}, fmt.Errorf("owner %d not found: %w", course.OwnerUserID, model.ErrInternal)
	}
	if err != nil {
		return model.Professor{}, err
	}
	return owner.Professor(), nil
}
