package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/service"
	appErrors "github.com/campusgate/gatepass-api/pkg/errors"
	"github.com/campusgate/gatepass-api/pkg/response"
)

// StudentHandler serves the student-facing pass endpoints.
type StudentHandler struct {
	service *service.PassService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc *service.PassService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// ListPasses godoc
// @Summary List own passes
// @Description List the pass history of the authenticated student
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /student/passes [get]
func (h *StudentHandler) ListPasses(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	passes, err := h.service.ListStudentPasses(c.Request.Context(), bearerToken(c), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"passes": passes})
}

// RequestPass godoc
// @Summary Request a gate pass
// @Description Submit a new exit pass request for faculty approval
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreatePassRequest true "Pass request"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/request [post]
func (h *StudentHandler) RequestPass(c *gin.Context) {
	var req models.CreatePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pass request payload"))
		return
	}

	if claims := claimsFromContext(c); claims != nil {
		if req.StudentID == "" {
			req.StudentID = claims.UserID
		}
		if req.StudentName == "" {
			req.StudentName = claims.Name
		}
	}

	pass, err := h.service.CreatePass(c.Request.Context(), bearerToken(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"pass": pass})
}
