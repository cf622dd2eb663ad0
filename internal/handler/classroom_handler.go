package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/academia-backend/internal/model"
	"github.com/stemsi/academia-backend/internal/response"
	"github.com/stemsi/academia-backend/internal/service"
	"github.com/stemsi/academia-backend/internal/validator"
)

type ClassroomHandler struct {
	classroomService *service.ClassroomService
}

func NewClassroomHandler(classroomService *service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classroomService: classroomService}
}

func (h *ClassroomHandler) List(c *gin.Context) {
	classrooms, err := h.classroomService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessList(c, classrooms)
}

func (h *ClassroomHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	classroom, err := h.classroomService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, classroom)
}

func (h *ClassroomHandler) Create(c *gin.Context) {
	var req model.CreateClassroomRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	classroom, err := h.classroomService.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, classroom)
}

func (h *ClassroomHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var patch model.ClassroomPatch
	if fields := validator.Bind(c, &patch); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	classroom, err := h.classroomService.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, classroom)
}

// Delete godoc
// DELETE /api/v1/classrooms/:id
// Rejected with 409 while any schedule still uses the room.
func (h *ClassroomHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.classroomService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "classroom deleted successfully"})
}
