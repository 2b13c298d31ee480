package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-sd-api/internal/service"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
	"github.com/noah-isme/absensi-sd-api/pkg/response"
)

// AttendanceHandler wires HTTP endpoints to the attendance service.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Mark godoc
// @Summary Mark attendance for a class on one date
// @Description Rejects the whole batch when the date falls on a weekend or declared holiday
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Attendance batch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	n, err := h.service.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"marked": n}, nil)
}

// Sheet godoc
// @Summary Day sheet for a class
// @Tags Attendance
// @Produce json
// @Param classId path string true "Class id"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/{classId}/sheet [get]
func (h *AttendanceHandler) Sheet(c *gin.Context) {
	sheet, err := h.service.Sheet(c.Request.Context(), c.Param("classId"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Recap godoc
// @Summary Day recap for a class
// @Tags Attendance
// @Produce json
// @Param classId path string true "Class id"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /attendance/{classId}/recap [get]
func (h *AttendanceHandler) Recap(c *gin.Context) {
	recap, err := h.service.DayRecap(c.Request.Context(), c.Param("classId"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recap, nil)
}
