package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/response"
	"github.com/stemsi/academia-backend/internal/service"
	"github.com/stemsi/academia-backend/internal/validator"
)

type ProgramHandler struct {
	programService *service.ProgramService
}

func NewProgramHandler(programService *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

func (h *ProgramHandler) List(c *gin.Context) {
	programs, err := h.programService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessList(c, programs)
}

func (h *ProgramHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	program, err := h.programService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, program)
}

// Courses godoc
// GET /api/v1/programs/:id/courses
// Returns the ids of the courses linked to the program.
func (h *ProgramHandler) Courses(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ids, err := h.programService.CourseIDs(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessList(c, ids)
}

func (h *ProgramHandler) Create(c *gin.Context) {
	var req model.CreateProgramRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	program, err := h.programService.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, program)
}

func (h *ProgramHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var patch model.ProgramPatch
	if fields := validator.Bind(c, &patch); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	program, err := h.programService.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, program)
}

func (h *ProgramHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.programService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "program deleted successfully"})
}
