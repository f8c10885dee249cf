package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/service"
	appErrors "github.com/campusgate/gatepass-api/pkg/errors"
	"github.com/campusgate/gatepass-api/pkg/response"
)

// FacultyHandler serves the approver-facing pass endpoints.
type FacultyHandler struct {
	service *service.PassService
}

// NewFacultyHandler creates a new handler.
func NewFacultyHandler(svc *service.PassService) *FacultyHandler {
	return &FacultyHandler{service: svc}
}

// ListRequests godoc
// @Summary List pass requests
// @Description List pass requests for the approver view, optionally filtered by status
// @Tags Faculty
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter" Enums(Pending, Approved, Rejected)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /faculty/requests [get]
func (h *FacultyHandler) ListRequests(c *gin.Context) {
	status := models.PassStatus(c.Query("status"))

	requests, err := h.service.ListFacultyRequests(c.Request.Context(), bearerToken(c), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"requests": requests})
}

// Decide godoc
// @Summary Approve or reject a pass
// @Description Apply a faculty decision to a pending pass request
// @Tags Faculty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pass ID"
// @Param payload body models.PassDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /faculty/request/{id} [put]
func (h *FacultyHandler) Decide(c *gin.Context) {
	passID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "pass id must be numeric"))
		return
	}

	var req models.PassDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	pass, err := h.service.SetPassDecision(c.Request.Context(), bearerToken(c), passID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"pass": pass})
}
