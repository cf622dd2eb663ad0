package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/academia-backend/internal/middleware"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/response"
	"github.com/stemsi/academia-backend/internal/service"
	"github.com/stemsi/academia-backend/internal/validator"
)

// CourseHandler serves the aggregated course views and full-course saves.
type CourseHandler struct {
	aggregator   *service.CourseAggregator
	synchronizer *service.CourseSynchronizer
	courses      *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(
	aggregator *service.CourseAggregator,
	synchronizer *service.CourseSynchronizer,
	courses *service.CourseService,
) *CourseHandler {
	return &CourseHandler{
		aggregator:   aggregator,
		synchronizer: synchronizer,
		courses:      courses,
	}
}

// List godoc
// GET /api/v1/courses
// Returns every course with its programs, schedules and professor.
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.aggregator.ListFullCourses(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessList(c, courses)
}

// Get godoc
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	course, err := h.aggregator.GetFullCourse(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// Save godoc
// POST /api/v1/courses
// Reconciles the submitted full course with the store. Responds 201 when
// the course did not exist before, 200 otherwise. Per-item failures are
// reported in the body and do not fail the request.
func (h *CourseHandler) Save(c *gin.Context) {
	var req model.FullCourseInput
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.save(c, req)
}

// Replace godoc
// PUT /api/v1/courses/:id
// Same as Save, with the course id taken from the path.
func (h *CourseHandler) Replace(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.FullCourseInput
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	req.ID = id
	h.save(c, req)
}

func (h *CourseHandler) save(c *gin.Context, req model.FullCourseInput) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, err := h.synchronizer.SaveFullCourse(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if result.Failures == nil {
		result.Failures = []model.SyncFailure{}
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response.Success(c, status, result)
}

// Delete godoc
// DELETE /api/v1/courses/:id
// Removes the course together with its program links and schedules.
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "course deleted successfully"})
}
