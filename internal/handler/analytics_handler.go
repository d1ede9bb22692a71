package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vetcare/internal/report"
	"vetcare/internal/service"
)

// AnalyticsHandler handles dashboard figures and their export.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Metrics handles GET /api/analytics/metrics
// @Summary Revenue and patient metrics
// @Description Totals for the range. Defaults to the last 30 days; a bare end date is inclusive.
// @Tags analytics
// @Produce json
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Param branchId query string false "Branch filter for cross-branch roles"
// @Success 200 {object} Response{data=domain.Metrics} "Metrics"
// @Failure 400 {object} ErrorResponseBody "Invalid date range"
// @Security BearerAuth
// @Router /analytics/metrics [get]
func (h *AnalyticsHandler) Metrics(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input service.AnalyticsRangeInput
	if err := c.ShouldBindQuery(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	m, err := h.analyticsService.Metrics(c.Request.Context(), p, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, m)
}

// Export handles GET /api/analytics/export
// @Summary Export analytics
// @Description Download the metrics and daily breakdown as a workbook (default) or CSV.
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Param branchId query string false "Branch filter for cross-branch roles"
// @Param format query string false "xlsx or csv" default(xlsx)
// @Success 200 {file} file "Report file"
// @Failure 400 {object} ErrorResponseBody "Invalid date range or format"
// @Security BearerAuth
// @Router /analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input service.AnalyticsRangeInput
	if err := c.ShouldBindQuery(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", report.FormatXLSX))
	contentType, supported := report.ContentTypes[format]
	if !supported {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "format must be xlsx or csv")
		return
	}

	r, err := h.analyticsService.Report(c.Request.Context(), p, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	// Rendered into memory first so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if format == report.FormatCSV {
		err = report.WriteCSV(&buf, r)
	} else {
		err = report.WriteXLSX(&buf, r)
	}
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := report.Filename("analytics", r.Metrics.Start, r.Metrics.End, format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
