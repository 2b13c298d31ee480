package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-sd-api/internal/service"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
	"github.com/noah-isme/absensi-sd-api/pkg/response"
)

// SyncHandler wires HTTP endpoints to the sync orchestrator.
type SyncHandler struct {
	service *service.SyncService
}

// NewSyncHandler creates a new handler.
func NewSyncHandler(svc *service.SyncService) *SyncHandler {
	return &SyncHandler{service: svc}
}

// Status godoc
// @Summary Current sync state
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Status(), nil)
}

// Push godoc
// @Summary Push the full local state to the remote now
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /sync/push [post]
func (h *SyncHandler) Push(c *gin.Context) {
	if !h.service.Push(c.Request.Context()) {
		response.Error(c, appErrors.Clone(appErrors.ErrSyncFailed, "push to remote failed"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.Status(), nil)
}

// Pull godoc
// @Summary Replace local collections with the remote's contents
// @Description Local-only changes in collections present remotely are discarded
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /sync/pull [post]
func (h *SyncHandler) Pull(c *gin.Context) {
	if !h.service.Pull(c.Request.Context()) {
		response.Error(c, appErrors.Clone(appErrors.ErrSyncFailed, "pull from remote failed"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.Status(), nil)
}

type endpointRequest struct {
	Endpoint string `json:"endpoint"`
}

// SetEndpoint godoc
// @Summary Configure the remote sync endpoint
// @Tags Sync
// @Accept json
// @Produce json
// @Param payload body endpointRequest true "Endpoint payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /sync/endpoint [put]
func (h *SyncHandler) SetEndpoint(c *gin.Context) {
	var req endpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid endpoint payload"))
		return
	}
	h.service.SetEndpoint(req.Endpoint)
	response.JSON(c, http.StatusOK, h.service.Status(), nil)
}
