package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campusgate/gatepass-api/internal/service"
	"github.com/campusgate/gatepass-api/pkg/response"
)

// TeacherHandler serves the approver roster endpoints.
type TeacherHandler struct {
	service *service.TeacherService
}

// NewTeacherHandler creates a new handler.
func NewTeacherHandler(svc *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{service: svc}
}

// List godoc
// @Summary List teachers
// @Description List the full approver roster
// @Tags Teachers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.service.List(c.Request.Context(), bearerToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"teachers": teachers})
}

// ListPresent godoc
// @Summary List present teachers
// @Description List teachers currently on campus and able to approve passes
// @Tags Teachers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teachers/present [get]
func (h *TeacherHandler) ListPresent(c *gin.Context) {
	teachers, err := h.service.ListPresent(c.Request.Context(), bearerToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"teachers": teachers})
}

// TogglePresence godoc
// @Summary Toggle teacher presence
// @Description Flip a teacher's on-campus presence flag
// @Tags Teachers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id}/presence [put]
func (h *TeacherHandler) TogglePresence(c *gin.Context) {
	teacher, err := h.service.TogglePresence(c.Request.Context(), bearerToken(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"teacher": teacher})
}
