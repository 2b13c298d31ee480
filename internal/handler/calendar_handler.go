package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-sd-api/internal/service"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
	"github.com/noah-isme/absensi-sd-api/pkg/response"
)

// CalendarHandler wires HTTP endpoints to the calendar service.
type CalendarHandler struct {
	service *service.CalendarService
}

// NewCalendarHandler creates a new handler.
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// Holidays godoc
// @Summary List declared holidays
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /holidays [get]
func (h *CalendarHandler) Holidays(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Holidays(c.Request.Context()), nil)
}

// AddHoliday godoc
// @Summary Declare a holiday
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body service.HolidayRequest true "Holiday payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /holidays [post]
func (h *CalendarHandler) AddHoliday(c *gin.Context) {
	var req service.HolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid holiday payload"))
		return
	}
	holiday, err := h.service.AddHoliday(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, holiday)
}

// DeleteHoliday godoc
// @Summary Delete a holiday
// @Tags Calendar
// @Param id path string true "Holiday id"
// @Success 204 {object} response.Envelope
// @Security BearerAuth
// @Router /holidays/{id} [delete]
func (h *CalendarHandler) DeleteHoliday(c *gin.Context) {
	h.service.DeleteHoliday(c.Request.Context(), c.Param("id"))
	response.NoContent(c)
}

// ImportHolidays godoc
// @Summary Bulk import holidays from tab-separated text
// @Description One line per holiday, columns date (YYYY-MM-DD) and description. Malformed lines are skipped.
// @Tags Calendar
// @Accept plain
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /holidays/import [post]
func (h *CalendarHandler) ImportHolidays(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read import body"))
		return
	}
	n := h.service.ImportHolidays(c.Request.Context(), string(body))
	response.JSON(c, http.StatusOK, gin.H{"imported": n}, nil)
}

// Years godoc
// @Summary List academic years
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /academic-years [get]
func (h *CalendarHandler) Years(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Years(c.Request.Context()), nil)
}

// AddYear godoc
// @Summary Add an academic year
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body service.YearRequest true "Academic year payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /academic-years [post]
func (h *CalendarHandler) AddYear(c *gin.Context) {
	var req service.YearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid academic year payload"))
		return
	}
	year, err := h.service.AddYear(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, year)
}

// ActivateYear godoc
// @Summary Activate an academic year, deactivating the rest
// @Tags Calendar
// @Param id path string true "Academic year id"
// @Success 204 {object} response.Envelope
// @Security BearerAuth
// @Router /academic-years/{id}/activate [post]
func (h *CalendarHandler) ActivateYear(c *gin.Context) {
	h.service.ActivateYear(c.Request.Context(), c.Param("id"))
	response.NoContent(c)
}

// DeleteYear godoc
// @Summary Delete an inactive academic year
// @Tags Calendar
// @Param id path string true "Academic year id"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /academic-years/{id} [delete]
func (h *CalendarHandler) DeleteYear(c *gin.Context) {
	if err := h.service.DeleteYear(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
