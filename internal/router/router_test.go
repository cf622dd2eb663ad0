package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/academia-backend/internal/config"
	"github.com/stemsi/academia-backend/internal/database"
	"github.com/stemsi/academia-backend/internal/handler"
	"github.com/stemsi/academia-backend/internal/repository"
	"github.com/stemsi/academia-backend/internal/service"
	"github.com/stemsi/academia-backend/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	studentEmail   = "jack.doe@student.com"
	professorEmail = "fabian.smith@university.com"
	adminEmail     = "jane.johnson@university.com"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
	Metadata struct {
		RequestID string `json:"request_id"`
		Count     *int   `json:"count"`
	} `json:"metadata"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		GinMode:    gin.TestMode,
		JWTSecret:  "router-test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	log := zerolog.Nop()
	validator.Setup()

	repos := repository.New(database.NoLatency)
	require.NoError(t, repository.Seed(ctx, repos, cfg.BcryptCost))

	events := service.NewEventPublisher(nil)
	authService := service.NewAuthService(cfg, repos.User)
	aggregator := service.NewCourseAggregator(repos, 4, log)

	handlers := &Handlers{
		Health: handler.NewHealthHandler(nil),
		Auth:   handler.NewAuthHandler(authService),
		Course: handler.NewCourseHandler(
			aggregator,
			service.NewCourseSynchronizer(repos, aggregator, events, log),
			service.NewCourseService(repos, events, log),
		),
		Schedule:  handler.NewScheduleHandler(service.NewScheduleService(repos, events, log)),
		Program:   handler.NewProgramHandler(service.NewProgramService(repos)),
		Classroom: handler.NewClassroomHandler(service.NewClassroomService(repos)),
		User:      handler.NewUserHandler(service.NewUserService(repos, authService)),
	}
	return SetupRouter(ctx, authService, handlers, cfg)
}

func do(t *testing.T, r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func login(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": repository.DemoPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func errCode(env envelope) string {
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w, env := do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, env.Metadata.RequestID)

	var data map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "disabled", data["events"])
}

func TestAuth(t *testing.T) {
	r := newTestRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": adminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errCode(env))

	w, env = do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(env))
	assert.Contains(t, env.Error.Fields, "password")

	token := login(t, r, adminEmail)
	w, env = do(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), adminEmail)
	assert.NotContains(t, string(env.Data), "password")

	w, env = do(t, r, http.MethodGet, "/api/v1/courses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_REQUIRED", errCode(env))

	w, env = do(t, r, http.MethodGet, "/api/v1/courses", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_INVALID", errCode(env))
}

func TestCourses_ReadAndRoles(t *testing.T) {
	r := newTestRouter(t)
	student := login(t, r, studentEmail)

	w, env := do(t, r, http.MethodGet, "/api/v1/courses", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Metadata.Count)
	assert.Equal(t, 10, *env.Metadata.Count)

	w, env = do(t, r, http.MethodGet, "/api/v1/courses/1", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var course struct {
		Name      string                  `json:"name"`
		Programs  []struct{ Name string } `json:"programs"`
		Schedules []struct {
			Day       string `json:"day"`
			Classroom struct {
				Name string `json:"name"`
			} `json:"classroom"`
		} `json:"schedules"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &course))
	assert.Equal(t, "Introduction to Computer Science", course.Name)
	assert.Len(t, course.Programs, 2)
	require.Len(t, course.Schedules, 2)
	assert.Equal(t, "Science Lab", course.Schedules[0].Classroom.Name)

	w, env = do(t, r, http.MethodGet, "/api/v1/courses/999", student, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errCode(env))

	w, env = do(t, r, http.MethodGet, "/api/v1/courses/abc", student, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", errCode(env))

	w, env = do(t, r, http.MethodPost, "/api/v1/courses", student, gin.H{"name": "Sneaky"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errCode(env))
}

func TestCourses_SaveFullCourse(t *testing.T) {
	r := newTestRouter(t)
	professor := login(t, r, professorEmail)

	body := gin.H{
		"name":     "Quantum Mechanics",
		"programs": []gin.H{{"name": "Quantum Computing", "description": "Qubits"}, {"name": "Data Science"}},
		"schedules": []gin.H{
			{"classroom_id": 4, "day": "Thursday", "start_time": "13:00", "end_time": "14:00"},
			// Science Lab is taken on Monday 09:00-10:30.
			{"classroom_id": 1, "day": "Monday", "start_time": "10:00", "end_time": "11:00"},
		},
	}

	var result struct {
		Created bool `json:"created"`
		Course  struct {
			ID        int                     `json:"id"`
			Programs  []struct{ Name string } `json:"programs"`
			Schedules []struct{ ID int }      `json:"schedules"`
		} `json:"course"`
		Failures []struct {
			Kind string `json:"kind"`
			Code string `json:"code"`
		} `json:"failures"`
	}

	w, env := do(t, r, http.MethodPost, "/api/v1/courses", professor, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Created)
	assert.Len(t, result.Course.Programs, 2)
	assert.Len(t, result.Course.Schedules, 1)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "schedule", result.Failures[0].Kind)
	assert.Equal(t, "SCHEDULE_CONFLICT", result.Failures[0].Code)

	id := result.Course.ID

	// Replacing via PUT drops the program and schedule that are not listed.
	w, env = do(t, r, http.MethodPut, "/api/v1/courses/"+itoa(id), professor, gin.H{
		"name":     "Quantum Mechanics",
		"programs": []gin.H{{"name": "Quantum Computing"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result.Failures = nil
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.False(t, result.Created)
	assert.Len(t, result.Course.Programs, 1)
	assert.Empty(t, result.Course.Schedules)
	assert.NotNil(t, result.Failures)
	assert.Empty(t, result.Failures)

	w, env = do(t, r, http.MethodPost, "/api/v1/courses", professor, gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(env))

	w, _ = do(t, r, http.MethodDelete, "/api/v1/courses/"+itoa(id), professor, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/v1/courses/"+itoa(id), professor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSchedules(t *testing.T) {
	r := newTestRouter(t)
	professor := login(t, r, professorEmail)

	tests := []struct {
		name     string
		body     gin.H
		wantCode int
		wantErr  string
	}{
		{"overlap", gin.H{"course_id": 2, "classroom_id": 1, "day": "Monday", "start_time": "10:00", "end_time": "11:00"}, http.StatusConflict, "SCHEDULE_CONFLICT"},
		{"bad format", gin.H{"course_id": 2, "classroom_id": 1, "day": "Monday", "start_time": "9am", "end_time": "11:00"}, http.StatusBadRequest, "INVALID_TIME_FORMAT"},
		{"reversed", gin.H{"course_id": 2, "classroom_id": 1, "day": "Monday", "start_time": "12:00", "end_time": "11:00"}, http.StatusBadRequest, "INVALID_TIME_RANGE"},
		{"bad day", gin.H{"course_id": 2, "classroom_id": 1, "day": "Someday", "start_time": "12:00", "end_time": "13:00"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown classroom", gin.H{"course_id": 2, "classroom_id": 99, "day": "Monday", "start_time": "12:00", "end_time": "13:00"}, http.StatusNotFound, "NOT_FOUND"},
		{"touching", gin.H{"course_id": 2, "classroom_id": 1, "day": "Monday", "start_time": "10:30", "end_time": "11:30"}, http.StatusCreated, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, "/api/v1/schedules", professor, tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.Equal(t, tt.wantErr, errCode(env))
		})
	}

	w, env := do(t, r, http.MethodGet, "/api/v1/schedules?course_id=2", professor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Metadata.Count)
	assert.Equal(t, 2, *env.Metadata.Count)

	// Moving the Wednesday slot onto the Monday one conflicts.
	w, env = do(t, r, http.MethodPatch, "/api/v1/schedules/2", professor, gin.H{"classroom_id": 1, "day": "Monday"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "SCHEDULE_CONFLICT", errCode(env))

	w, _ = do(t, r, http.MethodPatch, "/api/v1/schedules/2", professor, gin.H{"start_time": "08:00", "end_time": "09:00"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/v1/schedules/2", professor, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/v1/schedules/2", professor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalog(t *testing.T) {
	r := newTestRouter(t)
	admin := login(t, r, adminEmail)
	professor := login(t, r, professorEmail)

	w, env := do(t, r, http.MethodGet, "/api/v1/programs/1/courses", professor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ids []int
	require.NoError(t, json.Unmarshal(env.Data, &ids))
	assert.Equal(t, []int{1, 6}, ids)

	w, _ = do(t, r, http.MethodPost, "/api/v1/programs", professor, gin.H{"name": "Robotics"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/programs", admin, gin.H{"name": "Robotics"})
	assert.Equal(t, http.StatusCreated, w.Code)
	w, env = do(t, r, http.MethodPost, "/api/v1/programs", admin, gin.H{"name": "Robotics"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errCode(env))

	w, env = do(t, r, http.MethodDelete, "/api/v1/classrooms/1", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errCode(env))

	w, _ = do(t, r, http.MethodDelete, "/api/v1/classrooms/10", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, "/api/v1/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, *env.Metadata.Count)

	w, _ = do(t, r, http.MethodGet, "/api/v1/users", professor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = do(t, r, http.MethodDelete, "/api/v1/users/2", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errCode(env))
}

func TestMonitorWithoutEventBus(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, studentEmail)

	w, env := do(t, r, http.MethodGet, "/api/v1/courses/1/monitor", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", errCode(env))
}

func itoa(i int) string { return strconv.Itoa(i) }
