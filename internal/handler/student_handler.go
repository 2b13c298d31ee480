package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-sd-api/internal/service"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
	"github.com/noah-isme/absensi-sd-api/pkg/response"
)

// StudentHandler wires HTTP endpoints to the student service.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// List godoc
// @Summary List enrolled students
// @Tags Students
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var filter service.ListFilter
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	students, pagination := h.service.List(c.Request.Context(), filter)
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Fetch one student
// @Tags Students
// @Produce json
// @Param id path string true "Student id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create godoc
// @Summary Enroll a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	student, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update a student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student id"
// @Param payload body service.UpdateStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	student, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Delete godoc
// @Summary Remove a student from the roster
// @Tags Students
// @Param id path string true "Student id"
// @Success 204 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	h.service.Delete(c.Request.Context(), c.Param("id"))
	response.NoContent(c)
}

// Promote godoc
// @Summary Move a student to a new class
// @Tags Students
// @Accept json
// @Param id path string true "Student id"
// @Param payload body service.PromoteRequest true "Promotion payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id}/promote [post]
func (h *StudentHandler) Promote(c *gin.Context) {
	var req service.PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid promotion payload"))
		return
	}
	if err := h.service.Promote(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Transfer godoc
// @Summary Archive a student into the alumni collection
// @Tags Students
// @Accept json
// @Param id path string true "Student id"
// @Param payload body service.TransferRequest true "Transfer payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id}/transfer [post]
func (h *StudentHandler) Transfer(c *gin.Context) {
	var req service.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid transfer payload"))
		return
	}
	if err := h.service.Transfer(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Alumni godoc
// @Summary List archived alumni
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /alumni [get]
func (h *StudentHandler) Alumni(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Alumni(c.Request.Context()), nil)
}

// Import godoc
// @Summary Bulk import students from tab-separated text
// @Description One line per student, columns name, NISN, gender, parent phone. Malformed lines are skipped.
// @Tags Students
// @Accept plain
// @Produce json
// @Param classId path string true "Class id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students/import/{classId} [post]
func (h *StudentHandler) Import(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read import body"))
		return
	}
	n := h.service.Import(c.Request.Context(), c.Param("classId"), string(body))
	response.JSON(c, http.StatusOK, gin.H{"imported": n}, nil)
}
