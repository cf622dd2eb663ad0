package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/response"
	"github.com/stemsi/academia-backend/internal/service"
	"github.com/stemsi/academia-backend/internal/validator"
)

type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// List godoc
// GET /api/v1/schedules[?course_id=N]
func (h *ScheduleHandler) List(c *gin.Context) {
	courseID, ok := queryID(c, "course_id")
	if !ok {
		return
	}

	schedules, err := h.scheduleService.List(c.Request.Context(), courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessList(c, schedules)
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	schedule, err := h.scheduleService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, schedule)
}

// Create godoc
// POST /api/v1/schedules
// Rejects overlapping bookings of the same classroom with 409.
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req model.CreateScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	schedule, err := h.scheduleService.Create(c.Request.Context(), req.Input())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, schedule)
}

// Update godoc
// PATCH /api/v1/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var patch model.SchedulePatch
	if fields := validator.Bind(c, &patch); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	schedule, err := h.scheduleService.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, schedule)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.scheduleService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "schedule deleted successfully"})
}
