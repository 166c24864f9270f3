// internal/handler/host_handler.go
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cablescan-service/internal/hostui"
	"cablescan-service/internal/model"
	"cablescan-service/internal/utils"
	"cablescan-service/pkg/host"
)

// TunerInventory lists and rediscovers tuner slots
type TunerInventory interface {
	Tuners(ctx context.Context) ([]model.Tuner, error)
	Rescan(ctx context.Context) ([]model.Tuner, error)
}

// HostHandler exposes the simulated host controls
type HostHandler struct {
	navigator *hostui.Navigator
	recording *hostui.RecordTimer
	tuners    TunerInventory
	logger    *utils.ServiceLogger
}

// NewHostHandler creates a new host handler
func NewHostHandler(navigator *hostui.Navigator, recording *hostui.RecordTimer, tuners TunerInventory, logger *zap.Logger) *HostHandler {
	return &HostHandler{
		navigator: navigator,
		recording: recording,
		tuners:    tuners,
		logger:    utils.NewServiceLogger(logger, "host-handler"),
	}
}

// PlaybackRequest selects the service to play; empty stops playback
type PlaybackRequest struct {
	Service string `json:"service"`
}

// RecordingRequest switches the recording state
type RecordingRequest struct {
	Recording *bool `json:"recording" binding:"required"`
}

// GetPlayback returns the playback state
// @Summary Get playback
// @Tags Host
// @Produce json
// @Success 200 {object} utils.APIResponse{data=hostui.PlaybackState} "Playback state retrieved"
// @Router /host/playback [get]
func (h *HostHandler) GetPlayback(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Playback state retrieved", h.navigator.State())
}

// SetPlayback plays or stops a service
// @Summary Set playback
// @Tags Host
// @Accept json
// @Produce json
// @Param request body PlaybackRequest true "Service reference"
// @Success 200 {object} utils.APIResponse{data=hostui.PlaybackState} "Playback updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /host/playback [put]
func (h *HostHandler) SetPlayback(c *gin.Context) {
	var req PlaybackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Service == "" {
		h.navigator.StopService()
	} else if err := h.navigator.PlayService(host.ServiceRef(req.Service)); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to play service", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Playback updated", h.navigator.State())
}

// GetRecording returns whether a recording is running
// @Summary Get recording state
// @Tags Host
// @Produce json
// @Success 200 {object} utils.APIResponse{data=object{recording=bool}} "Recording state retrieved"
// @Router /host/recording [get]
func (h *HostHandler) GetRecording(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Recording state retrieved", gin.H{
		"recording": h.recording.IsRecording(c.Request.Context()),
	})
}

// SetRecording switches the recording state
// @Summary Set recording state
// @Tags Host
// @Accept json
// @Produce json
// @Param request body RecordingRequest true "Recording state"
// @Success 200 {object} utils.APIResponse{data=object{recording=bool}} "Recording state updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /host/recording [put]
func (h *HostHandler) SetRecording(c *gin.Context) {
	var req RecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.recording.SetRecording(*req.Recording)
	h.logger.Info("Recording state changed", zap.Bool("recording", *req.Recording))

	utils.SuccessResponse(c, http.StatusOK, "Recording state updated", gin.H{
		"recording": *req.Recording,
	})
}

// ListTuners returns every tuner slot
// @Summary List tuners
// @Tags Host
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.Tuner} "Tuners retrieved"
// @Router /host/tuners [get]
func (h *HostHandler) ListTuners(c *gin.Context) {
	tuners, err := h.tuners.Tuners(c.Request.Context())
	if err != nil {
		h.logger.Warn("Tuner discovery failed", zap.Error(err))
	}
	utils.SuccessResponse(c, http.StatusOK, "Tuners retrieved", tuners)
}

// RescanTuners repeats USB discovery
// @Summary Rescan tuners
// @Tags Host
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.Tuner} "Tuners rescanned"
// @Failure 503 {object} utils.APIResponse "Discovery failed"
// @Router /host/tuners/rescan [post]
func (h *HostHandler) RescanTuners(c *gin.Context) {
	tuners, err := h.tuners.Rescan(c.Request.Context())
	if err != nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Tuner discovery failed", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Tuners rescanned", tuners)
}
