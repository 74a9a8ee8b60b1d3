package httpapi

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) reportStats(c *gin.Context) {
	stats, err := h.Reports.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) reportTrends(c *gin.Context) {
	trends, err := h.Reports.Trends(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trends)
}

func (h *Handler) exportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": "complaints_report.csv"}))
	if err := h.Reports.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		respondError(c, err)
	}
}

func (h *Handler) exportPDF(c *gin.Context) {
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": "complaints_report.pdf"}))
	if err := h.Reports.ExportPDF(c.Request.Context(), c.Writer); err != nil {
		respondError(c, err)
	}
}
