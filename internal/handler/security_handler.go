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

// SecurityHandler serves the gate verification endpoints.
type SecurityHandler struct {
	service *service.VerificationService
}

// NewSecurityHandler creates a new handler.
func NewSecurityHandler(svc *service.VerificationService) *SecurityHandler {
	return &SecurityHandler{service: svc}
}

// VerifyQR godoc
// @Summary Verify a scanned QR code
// @Description Record a QR scan against an approved pass
// @Tags Security
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.QRVerifyRequest true "Scan payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /security/verify [post]
func (h *SecurityHandler) VerifyQR(c *gin.Context) {
	var req models.QRVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scan payload"))
		return
	}

	pass, err := h.service.SubmitQR(c.Request.Context(), bearerToken(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"pass": pass})
}

// VerifyFacial godoc
// @Summary Record a facial check outcome
// @Description Record whether the facial check matched for a pass
// @Tags Security
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pass ID"
// @Param payload body models.FacialVerifyRequest true "Match outcome"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /security/facial-verify/{id} [put]
func (h *SecurityHandler) VerifyFacial(c *gin.Context) {
	passID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "pass id must be numeric"))
		return
	}

	var req models.FacialVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid facial payload"))
		return
	}

	pass, err := h.service.SubmitFacial(c.Request.Context(), bearerToken(c), passID, req.Verified)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"pass": pass})
}

// ExitStatus godoc
// @Summary Check exit eligibility
// @Description Report the dual-verification state and exit eligibility of a pass
// @Tags Security
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pass ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /passes/{id}/exit-status [get]
func (h *SecurityHandler) ExitStatus(c *gin.Context) {
	passID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "pass id must be numeric"))
		return
	}

	status, err := h.service.ExitStatus(c.Request.Context(), bearerToken(c), passID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"exit_status": status})
}
