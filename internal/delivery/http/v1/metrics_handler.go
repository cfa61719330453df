package v1

import (
	"net/http"

	"connectmetric-backend/internal/delivery/http/response"
	"connectmetric-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	metricsUC domain.MetricsUsecase
}

// NewMetricsHandler registers the staff metrics routes
func NewMetricsHandler(r *gin.RouterGroup, metricsUC domain.MetricsUsecase) {
	handler := &MetricsHandler{metricsUC: metricsUC}

	metrics := r.Group("/metrics")
	{
		metrics.GET("", handler.Dashboard)
		metrics.GET("/assignments", handler.AssignmentSummary)
		metrics.GET("/export", handler.Export)
	}
}

// Dashboard godoc
// @Summary      Metrics dashboard
// @Description  Aggregated recruitment metrics with best-rated processes and stages to watch (staff only)
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.MetricsDashboard}
// @Failure      403  {object}  response.Response
// @Router       /metrics [get]
// @Security     BearerAuth
func (h *MetricsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.metricsUC.Dashboard(c, currentActor(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Metrics retrieved", dashboard)
}

// AssignmentSummary godoc
// @Summary      Assignment completion summary
// @Description  Totals and completion percentage across all assignments (staff only)
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.AssignmentSummary}
// @Failure      403  {object}  response.Response
// @Router       /metrics/assignments [get]
// @Security     BearerAuth
func (h *MetricsHandler) AssignmentSummary(c *gin.Context) {
	summary, err := h.metricsUC.AssignmentSummary(c, currentActor(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Assignment summary retrieved", summary)
}

// Export godoc
// @Summary      Export per-process metrics
// @Description  Download the per-process metrics extract as a file (staff only)
// @Tags         metrics
// @Produce      text/csv
// @Param        format  query  string  false  "Export format"  Enums(csv, xlsx)  default(csv)
// @Success      200  {file}    file
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /metrics/export [get]
// @Security     BearerAuth
func (h *MetricsHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	payload, filename, contentType, err := h.metricsUC.Export(c, currentActor(c), format)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, payload)
}
