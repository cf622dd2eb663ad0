package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/academia-backend/internal/config"
	"github.com/stemsi/academia-backend/internal/database"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []CourseEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev CourseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []CourseEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]CourseEventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testEnv struct {
	repos      *repository.Repositories
	events     *recordingPublisher
	aggregator *CourseAggregator
	sync       *CourseSynchronizer
	schedules  *ScheduleService
	courses    *CourseService
	auth       *AuthService

	professor model.User
	room1     model.Classroom
	room2     model.Classroom
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithLatency(t, database.NoLatency)
}

func newTestEnvWithLatency(t *testing.T, latency database.Latency) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()

	repos := repository.New(latency)
	events := &recordingPublisher{}
	aggregator := NewCourseAggregator(repos, 4, log)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, BcryptCost: bcrypt.MinCost}

	env := &testEnv{
		repos:      repos,
		events:     events,
		aggregator: aggregator,
		sync:       NewCourseSynchronizer(repos, aggregator, events, log),
		schedules:  NewScheduleService(repos, events, log),
		courses:    NewCourseService(repos, events, log),
		auth:       NewAuthService(cfg, repos.User),
	}

	var err error
	env.professor, err = repos.User.Create(ctx, model.User{
		Roles: []string{model.RoleProfessor}, FirstName: "Fabian", LastName: "Smith", Email: "fabian.smith@university.com",
	})
	require.NoError(t, err)
	env.room1, err = repos.Classroom.Create(ctx, model.Classroom{Name: "Science Lab", Capacity: 30})
	require.NoError(t, err)
	env.room2, err = repos.Classroom.Create(ctx, model.Classroom{Name: "Math Room", Capacity: 25})
	require.NoError(t, err)
	return env
}

func slot(room int, day, start, end string) model.ScheduleInput {
	return model.ScheduleInput{ClassroomID: room, Day: day, StartTime: start, EndTime: end}
}

func programNames(full model.FullCourse) []string {
	out := make([]string, 0, len(full.Programs))
	for _, p := range full.Programs {
		out = append(out, p.Name)
	}
	return out
}
