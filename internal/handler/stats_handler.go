package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgate/gatepass-api/internal/service"
	"github.com/campusgate/gatepass-api/pkg/response"
)

// StatsHandler serves the admin analytics and export endpoints.
type StatsHandler struct {
	stats  *service.StatsService
	export *service.ExportService
}

// NewStatsHandler creates a new handler.
func NewStatsHandler(stats *service.StatsService, export *service.ExportService) *StatsHandler {
	return &StatsHandler{stats: stats, export: export}
}

// Stats godoc
// @Summary Gate pass statistics
// @Description Aggregate counts, approval rate and weekly distribution of the pass register
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/stats [get]
func (h *StatsHandler) Stats(c *gin.Context) {
	report, err := h.stats.Report(c.Request.Context(), bearerToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Export godoc
// @Summary Export the pass register
// @Description Download the full pass register as CSV or PDF
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string true "Export format" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/export [get]
func (h *StatsHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))

	result, err := h.export.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
