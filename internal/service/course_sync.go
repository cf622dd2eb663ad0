package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
)

// CourseSynchronizer applies a desired full-course shape to the stores.
type CourseSynchronizer struct {
	courseRepo        repository.CourseRepository
	programRepo       repository.ProgramRepository
	classroomRepo     repository.ClassroomRepository
	scheduleRepo      repository.ScheduleRepository
	userRepo          repository.UserRepository
	courseProgramRepo repository.CourseProgramRepository
	locks             *repository.Locks
	aggregator        *CourseAggregator
	events            EventPublisher
	log               zerolog.Logger
}

// NewCourseSynchronizer creates a CourseSynchronizer.
func NewCourseSynchronizer(repos *repository.Repositories, aggregator *CourseAggregator, events EventPublisher, log zerolog.Logger) *CourseSynchronizer {
	return &CourseSynchronizer{
		courseRepo:        repos.Course,
		programRepo:       repos.Program,
		classroomRepo:     repos.Classroom,
		scheduleRepo:      repos.Schedule,
		userRepo:          repos.User,
		courseProgramRepo: repos.CourseProgram,
		locks:             repos.Locks,
		aggregator:        aggregator,
		events:            events,
		log:               log.With().Str("component", "course_sync").Logger(),
	}
}

// SaveFullCourse resolves or creates the course, reconciles its programs and
// schedules against desired, and returns the course as re-read from the
// stores.
//
// Only a failure to resolve the course, or a cancelled context, is returned
// as an error. A program or schedule that cannot be applied is skipped and
// reported in SaveResult.Failures. Each mutation is atomic on its own; the
// save as a whole is not, but it holds the course lock so a concurrent
// delete of the same course runs entirely before or after it.
func (s *CourseSynchronizer) SaveFullCourse(ctx context.Context, desired model.FullCourseInput, actingUserID int) (model.SaveResult, error) {
	course, created, err := s.resolveCourse(ctx, desired, actingUserID)
	if err != nil {
		return model.SaveResult{}, err
	}

	unlock, err := s.locks.Course.Lock(ctx, course.ID)
	if err != nil {
		return model.SaveResult{}, err
	}
	defer unlock()

	// The course may have been deleted between resolving and locking.
	if _, err := s.courseRepo.GetByID(ctx, course.ID); err != nil {
		return model.SaveResult{}, err
	}

	failures := []model.SyncFailure{}

	programFailures, err := s.syncPrograms(ctx, course.ID, desired.Programs)
	if err != nil {
		return model.SaveResult{}, err
	}
	failures = append(failures, programFailures...)

	scheduleFailures, err := s.syncSchedules(ctx, course.ID, desired.Schedules)
	if err != nil {
		return model.SaveResult{}, err
	}
	failures = append(failures, scheduleFailures...)

	for _, f := range failures {
		s.log.Warn().Err(f.Err).Int("course_id", course.ID).Str("kind", f.Kind).Str("ref", f.Ref).Msg("Skipped item during course save")
	}

	full, err := s.aggregator.GetFullCourse(ctx, course.ID)
	if err != nil {
		return model.SaveResult{}, err
	}

	notify(ctx, s.events, s.log, EventCourseSaved, course.ID)

	return model.SaveResult{Course: full, Created: created, Failures: failures}, nil
}

// resolveCourse finds the course by id or by name, creating it for the
// acting user when neither matches.
func (s *CourseSynchronizer) resolveCourse(ctx context.Context, desired model.FullCourseInput, actingUserID int) (model.Course, bool, error) {
	name := strings.TrimSpace(desired.Name)
	if name == "" {
		return model.Course{}, false, fmt.Errorf("course name is required: %w", model.ErrValidation)
	}

	if desired.ID != 0 {
		course, err := s.courseRepo.GetByID(ctx, desired.ID)
		if err != nil {
			return model.Course{}, false, err
		}
		if course.Name == name {
			return course, false, nil
		}
		course, err = s.courseRepo.Update(ctx, course.ID, model.CoursePatch{Name: &name})
		if err != nil {
			return model.Course{}, false, fmt.Errorf("rename course %d: %w", desired.ID, err)
		}
		return course, false, nil
	}

	course, err := s.courseRepo.GetByName(ctx, name)
	if err == nil {
		return course, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Course{}, false, err
	}

	unlockUser, err := s.locks.User.Lock(ctx, actingUserID)
	if err != nil {
		return model.Course{}, false, err
	}
	defer unlockUser()

	if _, err := s.userRepo.GetByID(ctx, actingUserID); err != nil {
		return model.Course{}, false, fmt.Errorf("acting user %d: %w", actingUserID, err)
	}

	course, err = s.courseRepo.Create(ctx, model.Course{Name: name, OwnerUserID: actingUserID})
	if errors.Is(err, model.ErrDuplicateName) {
		// Another save created it between the lookup and the insert.
		course, err = s.courseRepo.GetByName(ctx, name)
		return course, false, err
	}
	if err != nil {
		return model.Course{}, false, err
	}
	return course, true, nil
}

// syncPrograms makes the course's program relations equal to desired.
func (s *CourseSynchronizer) syncPrograms(ctx context.Context, courseID int, desired []model.ProgramInput) ([]model.SyncFailure, error) {
	var failures []model.SyncFailure

	existing, err := s.courseProgramRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	linked := make(map[int]bool, len(existing))
	for _, rel := range existing {
		linked[rel.ProgramID] = true
	}

	wanted := make(map[int]bool)
	seenNames := make(map[string]bool)
	unresolved := false

	for _, in := range desired {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := strings.TrimSpace(in.Name)
		if name != "" {
			if seenNames[name] {
				continue
			}
			seenNames[name] = true
		}

		program, err := s.resolveProgram(ctx, in, name)
		if err == nil && !wanted[program.ID] && !linked[program.ID] {
			err = s.courseProgramRepo.Add(ctx, courseID, program.ID)
			if errors.Is(err, model.ErrDuplicateRelation) {
				err = nil
			}
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if program.ID == 0 {
				unresolved = true
			} else {
				wanted[program.ID] = true
			}
			failures = append(failures, syncFailure(model.SyncKindProgram, programRef(in, name), err))
			continue
		}
		wanted[program.ID] = true
	}

	if unresolved {
		failures = append(failures, syncFailure(model.SyncKindProgram, "*",
			fmt.Errorf("relation removal skipped because a program could not be resolved: %w", model.ErrValidation)))
		return failures, nil
	}

	for _, rel := range existing {
		if wanted[rel.ProgramID] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := s.courseProgramRepo.Remove(ctx, courseID, rel.ProgramID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			failures = append(failures, syncFailure(model.SyncKindProgram, "#"+strconv.Itoa(rel.ProgramID), err))
		}
	}

	return failures, nil
}

// resolveProgram finds a program by name, creating it when absent. Inputs
// without a name fall back to their id.
func (s *CourseSynchronizer) resolveProgram(ctx context.Context, in model.ProgramInput, name string) (model.Program, error) {
	if name == "" {
		if in.ID == 0 {
			return model.Program{}, fmt.Errorf("program needs a name or an id: %w", model.ErrValidation)
		}
		return s.programRepo.GetByID(ctx, in.ID)
	}
	program, _, err := s.programRepo.FirstOrCreate(ctx, model.Program{Name: name, Description: in.Description})
	return program, err
}

// syncSchedules reconciles the course's schedules by id: stored schedules
// missing from desired are deleted, matching ids are updated and the rest
// are created. Items are applied one at a time in that order so conflicts
// among the desired schedules resolve deterministically.
func (s *CourseSynchronizer) syncSchedules(ctx context.Context, courseID int, desired []model.ScheduleInput) ([]model.SyncFailure, error) {
	var failures []model.SyncFailure

	existing, err := s.scheduleRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	stored := make(map[int]bool, len(existing))
	for _, sch := range existing {
		stored[sch.ID] = true
	}

	type item struct {
		ref string
		in  model.ScheduleInput
	}
	var updates, creates []item
	kept := make(map[int]bool)
	for i, in := range desired {
		in.CourseID = courseID
		switch {
		case in.ID != 0 && stored[in.ID] && kept[in.ID]:
			failures = append(failures, syncFailure(model.SyncKindSchedule, scheduleRef(i, in),
				fmt.Errorf("schedule %d listed twice: %w", in.ID, model.ErrValidation)))
		case in.ID != 0 && stored[in.ID]:
			kept[in.ID] = true
			updates = append(updates, item{scheduleRef(i, in), in})
		default:
			in.ID = 0
			creates = append(creates, item{scheduleRef(i, in), in})
		}
	}

	fail := func(ref string, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		failures = append(failures, syncFailure(model.SyncKindSchedule, ref, err))
		return nil
	}

	for _, sch := range existing {
		if kept[sch.ID] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := s.scheduleRepo.Delete(ctx, sch.ID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			if err := fail("#"+strconv.Itoa(sch.ID), err); err != nil {
				return nil, err
			}
		}
	}

	for _, u := range updates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in := u.in
		err := withClassroom(ctx, s.locks, s.classroomRepo, in.RoomID(), func() error {
			_, err := s.scheduleRepo.UpdateChecked(ctx, in.ID, func(_ model.Schedule, others []model.Schedule) (model.Schedule, error) {
				return CheckSchedule(in, in.ID, others)
			})
			return err
		})
		if err != nil {
			if err := fail(u.ref, err); err != nil {
				return nil, err
			}
		}
	}

	for _, c := range creates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in := c.in
		err := withClassroom(ctx, s.locks, s.classroomRepo, in.RoomID(), func() error {
			_, err := s.scheduleRepo.CreateChecked(ctx, func(others []model.Schedule) (model.Schedule, error) {
				return CheckSchedule(in, 0, others)
			})
			return err
		})
		if err != nil {
			if err := fail(c.ref, err); err != nil {
				return nil, err
			}
		}
	}

	return failures, nil
}

func syncFailure(kind, ref string, err error) model.SyncFailure {
	return model.SyncFailure{
		Kind:    kind,
		Ref:     ref,
		Code:    model.ErrorCode(err),
		Err:     err,
		Message: err.Error(),
	}
}

func programRef(in model.ProgramInput, name string) string {
	if name != "" {
		return name
	}
	return "#" + strconv.Itoa(in.ID)
}

func scheduleRef(i int, in model.ScheduleInput) string {
	if in.ID != 0 {
		return "#" + strconv.Itoa(in.ID)
	}
	return fmt.Sprintf("new[%d] %s %s-%s", i, in.Day, in.StartTime, in.EndTime)
}
