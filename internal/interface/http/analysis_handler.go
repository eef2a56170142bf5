package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/nutrisnap/internal/domain/nutrition"
)

// AnalyzeMeal accepts a multipart meal photo and returns the parsed report.
func (h *Handler) AnalyzeMeal(c *gin.Context) {
	data, fileHeader, httpErr := readUpload(c, "image", h.maxUploadBytes)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}
	source := nutrition.SourceUpload
	if strings.EqualFold(strings.TrimSpace(c.PostForm("source")), string(nutrition.SourceCamera)) {
		source = nutrition.SourceCamera
	}
	resp, err := h.nutritionSvc.Analyze(c.Request.Context(), nutrition.AnalyzeRequest{
		SessionID: sessionID(c),
		Filename:  fileHeader.Filename,
		Source:    source,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		Image:     data,
	})
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadReport serves the flattened text report of an analysis.
func (h *Handler) DownloadReport(c *gin.Context) {
	report, err := h.nutritionSvc.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nutrition.ReportFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}

// NutrientChart serves the rendered pie chart of an analysis.
func (h *Handler) NutrientChart(c *gin.Context) {
	png, err := h.nutritionSvc.Chart(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
