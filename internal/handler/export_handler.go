package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clansdown/KingShotMinisterScheduler/internal/service"
	apperrors "github.com/clansdown/KingShotMinisterScheduler/pkg/errors"
	"github.com/clansdown/KingShotMinisterScheduler/pkg/response"
)

type ExportHandler struct {
	exports *service.ExportService
}

func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export godoc
// @Summary      Export a run schedule
// @Description  Renders the full schedule of one run as CSV or PDF
// @Tags         runs
// @Produce      text/csv
// @Produce      application/pdf
// @Param        id path string true "Run ID"
// @Param        format query string false "csv or pdf" default(csv)
// @Param        day query int false "Rotation day (1-7); omit for the full week"
// @Success      200 {file} file
// @Failure      404 {object} response.Envelope
// @Security     BearerAuth
// @Router       /runs/{id}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	day := 0
	if dayParam := c.Query("day"); dayParam != "" {
		parsed, err := strconv.Atoi(dayParam)
		if err != nil {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, "day must be an integer"))
			return
		}
		day = parsed
	}

	result, err := h.exports.ExportRun(c.Request.Context(), c.Param("id"), format, day)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
