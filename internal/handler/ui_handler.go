// internal/handler/ui_handler.go
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cablescan-service/internal/hostui"
	"cablescan-service/internal/utils"
	"cablescan-service/pkg/form"
	"cablescan-service/pkg/host"
)

// UIHandler drives UI sessions over REST
type UIHandler struct {
	sessions *hostui.Manager
	plugins  *hostui.Plugins
	logger   *utils.ServiceLogger
}

// NewUIHandler creates a new UI handler
func NewUIHandler(sessions *hostui.Manager, plugins *hostui.Plugins, logger *zap.Logger) *UIHandler {
	return &UIHandler{
		sessions: sessions,
		plugins:  plugins,
		logger:   utils.NewServiceLogger(logger, "ui-handler"),
	}
}

// FieldRequest carries a raw field value
type FieldRequest struct {
	Value *string `json:"value" binding:"required"`
}

// RunResult is the outcome of a menu entry
type RunResult struct {
	Snapshot hostui.Snapshot `json:"snapshot"`
	Error    string          `json:"error,omitempty"`
}

// ListPlugins returns the registered plugin descriptors
// @Summary List plugins
// @Description Get the descriptors of every plugin available on this box
// @Tags Plugins
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]host.PluginDescriptor} "Plugins retrieved"
// @Router /plugins [get]
func (h *UIHandler) ListPlugins(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Plugins retrieved", h.plugins.Descriptors(c.Request.Context()))
}

// ListMenuEntries returns the entries plugins contribute to a menu
// @Summary List menu entries
// @Tags Plugins
// @Produce json
// @Param menu_id path string true "Menu ID" example(scan)
// @Success 200 {object} utils.APIResponse{data=[]host.MenuEntry} "Menu entries retrieved"
// @Router /menus/{menu_id} [get]
func (h *UIHandler) ListMenuEntries(c *gin.Context) {
	entries := h.plugins.MenuEntries(c.Request.Context(), c.Param("menu_id"))
	utils.SuccessResponse(c, http.StatusOK, "Menu entries retrieved", entries)
}

// CreateSession opens a UI session
// @Summary Create UI session
// @Tags UI
// @Produce json
// @Success 201 {object} utils.APIResponse{data=hostui.Snapshot} "UI session created"
// @Failure 409 {object} utils.APIResponse "Too many sessions"
// @Router /ui [post]
func (h *UIHandler) CreateSession(c *gin.Context) {
	session, err := h.sessions.Create()
	if err != nil {
		utils.ErrorResponse(c, http.StatusConflict, "Failed to create UI session", err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "UI session created", session.Snapshot())
}

// GetSession returns the current snapshot of a session
// @Summary Get UI session
// @Tags UI
// @Produce json
// @Param session_id path string true "UI session ID"
// @Success 200 {object} utils.APIResponse{data=hostui.Snapshot} "UI session retrieved"
// @Failure 404 {object} utils.APIResponse "Session not found"
// @Router /ui/{session_id} [get]
func (h *UIHandler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "UI session retrieved", session.Snapshot())
}

// DeleteSession tears down a session and every screen on it
// @Summary Delete UI session
// @Tags UI
// @Produce json
// @Param session_id path string true "UI session ID"
// @Success 200 {object} utils.APIResponse "UI session deleted"
// @Failure 404 {object} utils.APIResponse "Session not found"
// @Router /ui/{session_id} [delete]
func (h *UIHandler) DeleteSession(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}
	if err := h.sessions.Destroy(id); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "UI session not found", err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "UI session deleted", nil)
}

// RunMenuEntry runs a plugin menu entry on the session. A guard dialog
// shown by the entry is reported in the result, not as an HTTP error.
// @Summary Run menu entry
// @Tags UI
// @Produce json
// @Param session_id path string true "UI session ID"
// @Param menu_id path string true "Menu ID" example(scan)
// @Param entry path string true "Entry key" example(cablescan)
// @Success 200 {object} utils.APIResponse{data=RunResult} "Menu entry run"
// @Failure 404 {object} utils.APIResponse "Session or entry not found"
// @Router /ui/{session_id}/menus/{menu_id}/{entry} [post]
func (h *UIHandler) RunMenuEntry(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	entry, found := h.plugins.Entry(c.Request.Context(), c.Param("menu_id"), c.Param("entry"))
	if !found {
		utils.ErrorResponse(c, http.StatusNotFound, "Menu entry not found", nil)
		return
	}

	result := RunResult{}
	if err := session.Run(entry); err != nil {
		if errors.Is(err, hostui.ErrSessionClosed) {
			utils.ErrorResponse(c, http.StatusNotFound, "UI session closed", err)
			return
		}
		h.logger.Info("Menu entry refused",
			zap.String("entry", entry.Key),
			zap.String("reason", err.Error()),
		)
		result.Error = err.Error()
	}
	result.Snapshot = session.Snapshot()

	utils.SuccessResponse(c, http.StatusOK, "Menu entry run", result)
}

// SetField edits a field of the active screen
// @Summary Edit field
// @Tags UI
// @Accept json
// @Produce json
// @Param session_id path string true "UI session ID"
// @Param key path string true "Field key" example(frequency)
// @Param request body FieldRequest true "Raw field value"
// @Success 200 {object} utils.APIResponse{data=hostui.Snapshot} "Field updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Unknown field"
// @Failure 409 {object} utils.APIResponse "No editable screen"
// @Failure 422 {object} utils.APIResponse "Invalid value"
// @Router /ui/{session_id}/fields/{key} [put]
func (h *UIHandler) SetField(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req FieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := session.SetField(c.Param("key"), *req.Value); err != nil {
		utils.ErrorResponse(c, fieldErrorStatus(err), "Failed to set field", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Field updated", session.Snapshot())
}

// HandleAction delivers OK or cancel to the active screen
// @Summary Send action
// @Tags UI
// @Produce json
// @Param session_id path string true "UI session ID"
// @Param action path string true "Action" Enums(ok, cancel)
// @Success 200 {object} utils.APIResponse{data=hostui.Snapshot} "Action handled"
// @Failure 400 {object} utils.APIResponse "Unknown action"
// @Failure 409 {object} utils.APIResponse "No screen open"
// @Router /ui/{session_id}/actions/{action} [post]
func (h *UIHandler) HandleAction(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	action, valid := host.ParseAction(c.Param("action"))
	if !valid {
		utils.ErrorResponse(c, http.StatusBadRequest, "Unknown action", nil)
		return
	}

	ctx, cancel := context.WithTimeout(session.Context(), 30*time.Second)
	defer cancel()

	if err := session.HandleAction(ctx, action); err != nil {
		utils.ErrorResponse(c, http.StatusConflict, "Failed to handle action", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Action handled", session.Snapshot())
}

func (h *UIHandler) session(c *gin.Context) (*hostui.Session, bool) {
	id, ok := parseSessionID(c)
	if !ok {
		return nil, false
	}

	session, err := h.sessions.Get(id)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "UI session not found", err)
		return nil, false
	}
	return session, true
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid session ID", err)
		return uuid.Nil, false
	}
	return id, true
}

func fieldErrorStatus(err error) int {
	switch {
	case errors.Is(err, hostui.ErrNoScreen),
		errors.Is(err, hostui.ErrNotEditable),
		errors.Is(err, hostui.ErrSessionClosed):
		return http.StatusConflict
	case errors.Is(err, form.ErrUnknownField):
		return http.StatusNotFound
	case errors.Is(err, form.ErrOutOfRange),
		errors.Is(err, form.ErrUnknownChoice),
		errors.Is(err, form.ErrInvalidValue):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
