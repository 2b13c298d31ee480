package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-sd-api/internal/service"
	"github.com/noah-isme/absensi-sd-api/pkg/response"
)

// MessageHandler wires HTTP endpoints to the message composition service.
type MessageHandler struct {
	service *service.MessageService
}

// NewMessageHandler creates a new handler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// Parent godoc
// @Summary Compose the WhatsApp notification for a student's parent
// @Tags Messages
// @Produce json
// @Param id path string true "Student id"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/parent/{id} [get]
func (h *MessageHandler) Parent(c *gin.Context) {
	msg, err := h.service.ComposeParent(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, msg, nil)
}

// Recap godoc
// @Summary Compose the daily class recap text
// @Tags Messages
// @Produce json
// @Param classId path string true "Class id"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /messages/recap/{classId} [get]
func (h *MessageHandler) Recap(c *gin.Context) {
	msg, err := h.service.ComposeRecap(c.Request.Context(), c.Param("classId"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, msg, nil)
}
