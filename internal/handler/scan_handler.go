// internal/handler/scan_handler.go
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cablescan-service/internal/model"
	"cablescan-service/internal/repository"
	"cablescan-service/internal/service"
	"cablescan-service/internal/utils"
)

// ScanHandler serves the scan history
type ScanHandler struct {
	history *service.ScanHistoryService
	logger  *utils.ServiceLogger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(history *service.ScanHistoryService, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		history: history,
		logger:  utils.NewServiceLogger(logger, "scan-handler"),
	}
}

// ListScans returns the scan history
// @Summary List scans
// @Description Get journalled scan runs, newest first
// @Tags Scans
// @Produce json
// @Param status query string false "Run status" Enums(RUNNING, COMPLETED, FAILED, ABANDONED)
// @Param tuner_id query int false "Tuner slot"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} utils.APIResponse{data=object{runs=[]model.ScanRun,total=int,limit=int,offset=int}} "Scans retrieved"
// @Failure 400 {object} utils.APIResponse "Invalid query"
// @Router /scans [get]
func (h *ScanHandler) ListScans(c *gin.Context) {
	filter := &repository.ScanRunFilter{}

	if status := c.Query("status"); status != "" {
		s := model.ScanRunStatus(status)
		switch s {
		case model.ScanRunRunning, model.ScanRunCompleted, model.ScanRunFailed, model.ScanRunAbandoned:
			filter.Status = &s
		default:
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid status", nil)
			return
		}
	}

	if tunerID := c.Query("tuner_id"); tunerID != "" {
		id, err := strconv.Atoi(tunerID)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid tuner_id", err)
			return
		}
		filter.TunerID = &id
	}

	var err error
	if filter.Limit, err = queryInt(c, "limit", 50); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid limit", err)
		return
	}
	if filter.Offset, err = queryInt(c, "offset", 0); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid offset", err)
		return
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}

	runs, total, err := h.history.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list scans", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list scans", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Scans retrieved", gin.H{
		"runs":   runs,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// GetScan returns a single scan run
// @Summary Get scan
// @Tags Scans
// @Produce json
// @Param scan_id path string true "Scan ID"
// @Success 200 {object} utils.APIResponse{data=model.ScanRun} "Scan retrieved"
// @Failure 400 {object} utils.APIResponse "Invalid scan ID"
// @Failure 404 {object} utils.APIResponse "Scan not found"
// @Router /scans/{scan_id} [get]
func (h *ScanHandler) GetScan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("scan_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid scan ID", err)
		return
	}

	run, err := h.history.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Scan not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get scan", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Scan retrieved", run)
}

// CleanupScans deletes old history entries
// @Summary Clean up scan history
// @Tags Scans
// @Produce json
// @Param older_than query string false "Retention" default(720h)
// @Success 200 {object} utils.APIResponse{data=object{deleted=int}} "Scan history cleaned up"
// @Failure 400 {object} utils.APIResponse "Invalid retention"
// @Router /scans [delete]
func (h *ScanHandler) CleanupScans(c *gin.Context) {
	retention, err := time.ParseDuration(c.DefaultQuery("older_than", "720h"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid retention", err)
		return
	}

	deleted, err := h.history.Cleanup(c.Request.Context(), retention)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to clean up scan history", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Scan history cleaned up", gin.H{"deleted": deleted})
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return v, nil
}
