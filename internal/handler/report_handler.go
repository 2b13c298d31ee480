package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-sd-api/internal/service"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
	"github.com/noah-isme/absensi-sd-api/pkg/response"
)

// ReportHandler wires HTTP endpoints to the report service.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

func reportPeriod(c *gin.Context) (string, int, int, error) {
	classID := c.DefaultQuery("class_id", service.ClassAll)
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return "", 0, 0, appErrors.Clone(appErrors.ErrValidation, "year must be a number")
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return "", 0, 0, appErrors.Clone(appErrors.ErrValidation, "month must be a number")
	}
	return classID, year, month, nil
}

// Monthly godoc
// @Summary Monthly attendance matrix
// @Tags Reports
// @Produce json
// @Param class_id query string false "Class id, or ALL"
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	classID, year, month, err := reportPeriod(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.Monthly(c.Request.Context(), classID, year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// MonthlyCSV godoc
// @Summary Monthly attendance matrix as CSV
// @Tags Reports
// @Produce text/csv
// @Param class_id query string false "Class id, or ALL"
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/monthly.csv [get]
func (h *ReportHandler) MonthlyCSV(c *gin.Context) {
	classID, year, month, err := reportPeriod(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.service.MonthlyCSV(c.Request.Context(), classID, year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("absensi-%s-%04d-%02d.csv", classID, year, month)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// MonthlyPDF godoc
// @Summary Printable monthly attendance report
// @Tags Reports
// @Produce application/pdf
// @Param class_id query string false "Class id, or ALL"
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {string} string "PDF content"
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /reports/monthly.pdf [get]
func (h *ReportHandler) MonthlyPDF(c *gin.Context) {
	classID, year, month, err := reportPeriod(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.service.MonthlyPDF(c.Request.Context(), classID, year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("absensi-%s-%04d-%02d.pdf", classID, year, month)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Dashboard godoc
// @Summary Landing page summary for today
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Dashboard(c.Request.Context(), time.Now()), nil)
}
