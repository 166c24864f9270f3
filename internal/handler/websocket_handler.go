// internal/handler/websocket_handler.go
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cablescan-service/internal/hostui"
	"cablescan-service/internal/utils"
	"cablescan-service/pkg/host"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 54 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// WebSocketHandler streams UI session snapshots and accepts user input
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	connections *ConnectionManager
	sessions    *hostui.Manager
	eventBus    *EventBus
	logger      *utils.ServiceLogger
	done        chan struct{}
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	sessions *hostui.Manager,
	eventBus *EventBus,
	allowedOrigins []string,
	logger *zap.Logger,
) *WebSocketHandler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}

	handler := &WebSocketHandler{
		upgrader:    upgrader,
		connections: NewConnectionManager(),
		sessions:    sessions,
		eventBus:    eventBus,
		logger:      utils.NewServiceLogger(logger, "websocket-handler"),
		done:        make(chan struct{}),
	}

	go handler.forwardEvents(
		eventBus.Subscribe(EventUISnapshot),
		eventBus.Subscribe(EventScanRun),
	)

	return handler
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		set[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ui/:session_id", h.HandleUIConnection)
}

// HandleUIConnection follows one UI session
// @Summary UI session stream
// @Description Upgrade to a WebSocket that streams screen snapshots of a UI session and accepts actions and field edits
// @Tags UI
// @Param session_id path string true "UI session ID"
// @Success 101 "Switching protocols"
// @Failure 400 {object} utils.APIResponse "Invalid session ID"
// @Failure 404 {object} utils.APIResponse "Session not found"
// @Router /ws/ui/{session_id} [get]
func (h *WebSocketHandler) HandleUIConnection(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid session ID", err)
		return
	}

	session, err := h.sessions.Get(sessionID)
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "UI session not found", err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		SessionID:   sessionID,
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
	}

	h.connections.Register(client)
	h.logger.Info("UI WebSocket client connected",
		zap.String("client_id", client.ID),
		zap.String("session_id", sessionID.String()),
		zap.String("remote_addr", client.RemoteAddr),
	)

	h.sendMessage(client, &WebSocketMessage{
		Type:      "snapshot",
		Data:      session.Snapshot(),
		Timestamp: time.Now(),
	})

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// Close stops event forwarding
func (h *WebSocketHandler) Close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// handleClientRead handles reading messages from WebSocket client
func (h *WebSocketHandler) handleClientRead(client *Client) {
	defer func() {
		h.connections.Unregister(client)
		client.Connection.Close()
	}()

	client.Connection.SetReadDeadline(time.Now().Add(wsReadTimeout))
	client.Connection.SetPongHandler(func(string) error {
		client.Connection.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		_, messageBytes, err := client.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket read error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
			}
			break
		}

		var message ClientMessage
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			h.logger.Warn("Failed to parse WebSocket message",
				zap.Error(err),
				zap.String("client_id", client.ID),
			)
			h.sendError(client, "invalid message")
			continue
		}

		h.handleClientMessage(client, &message)
	}
}

// handleClientWrite handles writing messages to WebSocket client
func (h *WebSocketHandler) handleClientWrite(client *Client) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		client.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Connection.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if !ok {
				client.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Connection.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Error("WebSocket write error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
				return
			}

		case <-ticker.C:
			client.Connection.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := client.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ClientMessage is a message sent by a UI client
type ClientMessage struct {
	Type   string `json:"type"` // ping, snapshot, action, field
	Action string `json:"action,omitempty"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
}

// handleClientMessage handles incoming client messages
func (h *WebSocketHandler) handleClientMessage(client *Client, message *ClientMessage) {
	session, err := h.sessions.Get(client.SessionID)
	if err != nil {
		h.sendError(client, "ui session closed")
		return
	}

	switch message.Type {
	case "ping":
		h.sendMessage(client, &WebSocketMessage{Type: "pong", Timestamp: time.Now()})

	case "snapshot":
		h.sendMessage(client, &WebSocketMessage{
			Type:      "snapshot",
			Data:      session.Snapshot(),
			Timestamp: time.Now(),
		})

	case "action":
		action, ok := host.ParseAction(message.Action)
		if !ok {
			h.sendError(client, "unknown action: "+message.Action)
			return
		}
		ctx, cancel := context.WithTimeout(session.Context(), 30*time.Second)
		defer cancel()
		if err := session.HandleAction(ctx, action); err != nil {
			h.sendError(client, err.Error())
		}

	case "field":
		if err := session.SetField(message.Key, message.Value); err != nil {
			h.sendError(client, err.Error())
		}

	default:
		h.logger.Warn("Unknown message type",
			zap.String("type", message.Type),
			zap.String("client_id", client.ID),
		)
		h.sendError(client, "unknown message type: "+message.Type)
	}
}

// forwardEvents relays bus events to connected clients
func (h *WebSocketHandler) forwardEvents(snapshots, runs <-chan Event) {
	for {
		select {
		case <-h.done:
			return

		case event := <-snapshots:
			snapshot, ok := event.Data["snapshot"].(hostui.Snapshot)
			if !ok {
				continue
			}
			h.broadcast(func(c *Client) bool { return c.SessionID == snapshot.SessionID }, &WebSocketMessage{
				Type:      "snapshot",
				Data:      snapshot,
				Timestamp: event.Timestamp,
			})

		case event := <-runs:
			h.broadcast(nil, &WebSocketMessage{
				Type:      "scan_run",
				Data:      event.Data["run"],
				Timestamp: event.Timestamp,
			})
		}
	}
}

// sendMessage sends a message to a client
func (h *WebSocketHandler) sendMessage(client *Client, message *WebSocketMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal WebSocket message", zap.Error(err))
		return
	}

	if !h.connections.Send(client, messageBytes) {
		h.logger.Warn("Client send channel full, dropping message",
			zap.String("client_id", client.ID),
		)
	}
}

// sendError sends an error message to a client
func (h *WebSocketHandler) sendError(client *Client, errorMsg string) {
	h.sendMessage(client, &WebSocketMessage{
		Type: "error",
		Data: map[string]interface{}{
			"error": errorMsg,
		},
		Timestamp: time.Now(),
	})
}

// broadcast sends message to every client accepted by filter
func (h *WebSocketHandler) broadcast(filter func(*Client) bool, message *WebSocketMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", zap.Error(err))
		return
	}

	if dropped := h.connections.Broadcast(filter, messageBytes); dropped > 0 {
		h.logger.Warn("Client send channel full during broadcast", zap.Int("dropped", dropped))
	}
}

// GetConnectionStats returns connection statistics
func (h *WebSocketHandler) GetConnectionStats() *ConnectionStats {
	return h.connections.GetStats()
}
