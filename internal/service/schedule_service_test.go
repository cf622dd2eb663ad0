package service

import (
	"context"
	"testing"

	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestScheduleService_Scenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := seedCourse(t, env, "Intro to X", env.professor.ID, []string{"A", "B"})

	in := slot(env.room1.ID, "Monday", "09:00", "10:30")
	in.CourseID = course.ID
	first, err := env.schedules.Create(ctx, in)
	require.NoError(t, err)

	full, err := env.aggregator.GetFullCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, full.Schedules, 1)
	assert.Equal(t, first, full.Schedules[0].Schedule)

	clash := slot(env.room1.ID, "Monday", "09:30", "10:00")
	clash.CourseID = course.ID
	_, err = env.schedules.Create(ctx, clash)
	assert.ErrorIs(t, err, model.ErrConflict)

	all, _ := env.schedules.List(ctx, 0)
	require.Len(t, all, 1, "rejected schedule is not stored")
	assert.Equal(t, first, all[0])

	// Same slot on Wednesday is fine: overlap is per day.
	clash.Day = "Wednesday"
	second, err := env.schedules.Create(ctx, clash)
	require.NoError(t, err)

	_, err = env.schedules.Update(ctx, second.ID, model.SchedulePatch{Day: ptr("Monday")})
	assert.ErrorIs(t, err, model.ErrScheduleConflict)

	moved, err := env.schedules.Update(ctx, second.ID, model.SchedulePatch{ClassroomID: ptr(env.room2.ID), Day: ptr("Monday")})
	require.NoError(t, err)
	assert.Equal(t, second.ID, moved.ID)
	assert.Equal(t, env.room2.ID, moved.ClassroomID)
	assert.Equal(t, "09:30", moved.StartTime.String())

	require.NoError(t, env.schedules.Delete(ctx, first.ID))
	assert.ErrorIs(t, env.schedules.Delete(ctx, first.ID), model.ErrNotFound)

	assert.Equal(t, []CourseEventType{EventScheduleChanged, EventScheduleChanged, EventScheduleChanged, EventScheduleChanged}, env.events.types())
}

func TestScheduleService_UpdateKeepsOwnSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := seedCourse(t, env, "C", env.professor.ID, nil)
	in := slot(env.room1.ID, "Monday", "09:00", "10:30")
	in.CourseID = course.ID
	s, err := env.schedules.Create(ctx, in)
	require.NoError(t, err)

	updated, err := env.schedules.Update(ctx, s.ID, model.SchedulePatch{EndTime: ptr("11:00")})
	require.NoError(t, err)
	assert.Equal(t, "11:00", updated.EndTime.String())
}

func TestScheduleService_References(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	course := seedCourse(t, env, "C", env.professor.ID, nil)

	in := slot(env.room1.ID, "Monday", "09:00", "10:00")
	in.CourseID = 999
	_, err := env.schedules.Create(ctx, in)
	assert.ErrorIs(t, err, model.ErrNotFound)

	in = slot(999, "Monday", "09:00", "10:00")
	in.CourseID = course.ID
	_, err = env.schedules.Create(ctx, in)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = env.schedules.Update(ctx, 999, model.SchedulePatch{EndTime: ptr("11:00")})
	assert.ErrorIs(t, err, model.ErrNotFound)

	in = slot(env.room1.ID, "Monday", "10:00", "09:00")
	in.CourseID = course.ID
	_, err = env.schedules.Create(ctx, in)
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	in = slot(0, "Monday", "09:00", "10:00")
	in.CourseID = course.ID
	_, err = env.schedules.Create(ctx, in)
	assert.ErrorIs(t, err, model.ErrValidation)

	in = slot(env.room1.ID, "Monday", "09:00", "10:00")
	in.CourseID = course.ID
	s, err := env.schedules.Create(ctx, in)
	require.NoError(t, err)

	_, err = env.schedules.Update(ctx, s.ID, model.SchedulePatch{ClassroomID: ptr(0)})
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = env.schedules.Update(ctx, s.ID, model.SchedulePatch{ClassroomID: ptr(999)})
	assert.ErrorIs(t, err, model.ErrNotFound)

	stored, err := env.repos.Schedule.GetByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, env.room1.ID, stored[0].ClassroomID)
}

func TestScheduleService_ListByCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := seedCourse(t, env, "A", env.professor.ID, nil, monday(env.room1.ID, "09:00", "10:00"))
	seedCourse(t, env, "B", env.professor.ID, nil, monday(env.room2.ID, "09:00", "10:00"))

	mine, err := env.schedules.List(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].CourseID)
}
