// internal/handler/handler_test.go
package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cablescan-service/internal/cablescan"
	"cablescan-service/internal/config"
	"cablescan-service/internal/engine"
	"cablescan-service/internal/hostui"
	"cablescan-service/internal/model"
	"cablescan-service/internal/service"
	"cablescan-service/internal/store"
	"cablescan-service/internal/tuner"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router    *gin.Engine
	sessions  *hostui.Manager
	navigator *hostui.Navigator
	recording *hostui.RecordTimer
	history   *service.ScanHistoryService
	ws        *WebSocketHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	tuners, err := tuner.NewManager([]model.Tuner{
		{Slot: 0, Description: "Tuner A: DVB-C", Delivery: model.DeliveryCable},
	}, nil, logger)
	require.NoError(t, err)

	env := &testEnv{
		sessions:  hostui.NewManager(0, logger),
		navigator: hostui.NewNavigator("1:0:1:445D:453:1:C00000:0:0:0:", logger),
		recording: hostui.NewRecordTimer(false),
		history:   service.NewScanHistoryService(nil, logger),
	}

	plugin, err := cablescan.New(cablescan.Deps{
		Tuners:    tuners,
		Recording: env.recording,
		Navigator: env.navigator,
		Store:     store.NewMemoryStore(),
		Engines:   engine.NewSimulatedFactory(config.SimulatedEngineConfig{StepInterval: time.Hour}, logger),
		Journal:   env.history,
		Logger:    logger,
	})
	require.NoError(t, err)
	plugins := hostui.NewPlugins(plugin)

	bus := NewEventBus(logger)
	go bus.Start()
	env.sessions.OnChange(bus.PublishSnapshot)
	t.Cleanup(bus.Stop)

	cfg := &config.Config{App: config.AppConfig{Name: "cablescan-service", Version: "test"}}
	cfg.Engine.Driver = "simulated"

	ui := NewUIHandler(env.sessions, plugins, logger)
	hostHandler := NewHostHandler(env.navigator, env.recording, tuners, logger)
	scans := NewScanHandler(env.history, logger)
	health := NewHealthHandler(nil, cfg, tuners, env.sessions, logger)
	env.ws = NewWebSocketHandler(env.sessions, bus, nil, logger)
	t.Cleanup(env.ws.Close)

	router := gin.New()
	health.RegisterRoutes(router)
	api := router.Group("/api/v1")
	api.GET("/plugins", ui.ListPlugins)
	api.GET("/menus/:menu_id", ui.ListMenuEntries)
	api.POST("/ui", ui.CreateSession)
	api.GET("/ui/:session_id", ui.GetSession)
	api.DELETE("/ui/:session_id", ui.DeleteSession)
	api.POST("/ui/:session_id/menus/:menu_id/:entry", ui.RunMenuEntry)
	api.PUT("/ui/:session_id/fields/:key", ui.SetField)
	api.POST("/ui/:session_id/actions/:action", ui.HandleAction)
	api.GET("/host/playback", hostHandler.GetPlayback)
	api.PUT("/host/playback", hostHandler.SetPlayback)
	api.GET("/host/recording", hostHandler.GetRecording)
	api.PUT("/host/recording", hostHandler.SetRecording)
	api.GET("/host/tuners", hostHandler.ListTuners)
	api.GET("/scans", scans.ListScans)
	api.GET("/scans/:scan_id", scans.GetScan)
	api.DELETE("/scans", scans.CleanupScans)
	env.ws.RegisterRoutes(router.Group("/ws"))

	env.router = router
	return env
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	code, resp := e.do(t, http.MethodPost, "/api/v1/ui", nil)
	require.Equal(t, http.StatusCreated, code)

	var snapshot hostui.Snapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snapshot))
	return snapshot.SessionID.String()
}

func decodeSnapshot(t *testing.T, resp envelope) hostui.Snapshot {
	t.Helper()
	var snapshot hostui.Snapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snapshot))
	return snapshot
}

func TestUIHandler_ScanFlow(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)
	base := "/api/v1/ui/" + id

	code, resp := env.do(t, http.MethodPost, base+"/menus/scan/cablescan", nil)
	require.Equal(t, http.StatusOK, code)
	var result struct {
		Snapshot hostui.Snapshot `json:"snapshot"`
		Error    string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Empty(t, result.Error)
	require.NotNil(t, result.Snapshot.Top)
	assert.Equal(t, "Cable scan", result.Snapshot.Top.Title)
	assert.Len(t, result.Snapshot.Top.Fields, 6)

	code, resp = env.do(t, http.MethodPut, base+"/fields/frequency", map[string]string{"value": "1000"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	code, _ = env.do(t, http.MethodPut, base+"/fields/bandwidth", map[string]string{"value": "8"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = env.do(t, http.MethodPut, base+"/fields/frequency", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.do(t, http.MethodPut, base+"/fields/frequency", map[string]string{"value": "330"})
	require.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, http.MethodPost, base+"/actions/exit", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = env.do(t, http.MethodPost, base+"/actions/ok", nil)
	require.Equal(t, http.StatusOK, code)
	snapshot := decodeSnapshot(t, resp)
	require.NotNil(t, snapshot.Top)
	assert.Equal(t, "Scanning...", snapshot.Top.Text)
	assert.Equal(t, "330 MHz, 6875 kSym/s, QAM64", snapshot.Top.Footer)
	assert.Len(t, snapshot.Screens, 2)

	// progress view takes no field edits
	code, _ = env.do(t, http.MethodPut, base+"/fields/frequency", map[string]string{"value": "331"})
	assert.Equal(t, http.StatusConflict, code)

	code, resp = env.do(t, http.MethodGet, "/api/v1/host/playback", nil)
	require.Equal(t, http.StatusOK, code)
	var playback hostui.PlaybackState
	require.NoError(t, json.Unmarshal(resp.Data, &playback))
	assert.False(t, playback.Playing)

	code, resp = env.do(t, http.MethodPost, base+"/actions/cancel", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decodeSnapshot(t, resp).Screens, 1)
	assert.Equal(t, "1:0:1:445D:453:1:C00000:0:0:0:", string(env.navigator.CurrentService()))

	code, resp = env.do(t, http.MethodGet, "/api/v1/scans?status=ABANDONED", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Runs  []model.ScanRun `json:"runs"`
		Total int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	require.Equal(t, 1, page.Total)
	assert.Equal(t, 330000, page.Runs[0].FrequencyKHz)

	code, _ = env.do(t, http.MethodGet, "/api/v1/scans/"+page.Runs[0].ID.String(), nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = env.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = env.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUIHandler_GuardDialog(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	code, _ := env.do(t, http.MethodPut, "/api/v1/host/recording", map[string]bool{"recording": true})
	require.Equal(t, http.StatusOK, code)

	code, resp := env.do(t, http.MethodPost, "/api/v1/ui/"+id+"/menus/scan/cablescan", nil)
	require.Equal(t, http.StatusOK, code)
	var result RunResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, cablescan.ErrRecordingInProgress.Error(), result.Error)
	assert.Equal(t, cablescan.MsgRecording, result.Snapshot.Top.Text)

	code, _ = env.do(t, http.MethodPost, "/api/v1/ui/"+id+"/menus/scan/unknown", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUIHandler_InvalidSession(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodGet, "/api/v1/ui/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)

	code, _ = env.do(t, http.MethodGet, "/api/v1/ui/7d444840-9dc0-11d1-b245-5ffdce74fad2", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUIHandler_PluginsAndMenus(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodGet, "/api/v1/plugins", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), "Scan cable provider channels")
	assert.Contains(t, string(resp.Data), `"where":"MENU"`)

	code, resp = env.do(t, http.MethodGet, "/api/v1/menus/scan", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"key":"cablescan"`)

	_, resp = env.do(t, http.MethodGet, "/api/v1/menus/setup", nil)
	assert.Equal(t, "[]", string(resp.Data))
}

func TestHostHandler(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodPut, "/api/v1/host/playback", map[string]string{"service": ""})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "", string(env.navigator.CurrentService()))

	code, _ = env.do(t, http.MethodPut, "/api/v1/host/playback", map[string]string{"service": "1:0:19:2B66:3F3:1:C00000:0:0:0:"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "1:0:19:2B66:3F3:1:C00000:0:0:0:", string(env.navigator.CurrentService()))

	code, _ = env.do(t, http.MethodPut, "/api/v1/host/recording", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp := env.do(t, http.MethodGet, "/api/v1/host/recording", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"recording":false}`, string(resp.Data))

	code, resp = env.do(t, http.MethodGet, "/api/v1/host/tuners", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), "Tuner A: DVB-C")
}

func TestScanHandler_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		path string
		code int
	}{
		{path: "/api/v1/scans", code: http.StatusOK},
		{path: "/api/v1/scans?status=LOST", code: http.StatusBadRequest},
		{path: "/api/v1/scans?tuner_id=x", code: http.StatusBadRequest},
		{path: "/api/v1/scans?limit=-1", code: http.StatusBadRequest},
		{path: "/api/v1/scans/abc", code: http.StatusBadRequest},
		{path: "/api/v1/scans/7d444840-9dc0-11d1-b245-5ffdce74fad2", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, _ := env.do(t, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.code, code)
		})
	}

	code, _ := env.do(t, http.MethodDelete, "/api/v1/scans?older_than=soon", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, resp := env.do(t, http.MethodDelete, "/api/v1/scans?older_than=24h", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"deleted":0}`, string(resp.Data))
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "disabled", health.Checks["database"].Status)
	assert.Equal(t, "healthy", health.Checks["tuners"].Status)

	for _, path := range []string{"/ready", "/live"} {
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestWebSocketHandler_StreamsSnapshots(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	server := httptest.NewServer(env.router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/ui/" + id
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() WebSocketMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg WebSocketMessage
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	assert.Equal(t, "snapshot", read().Type)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "ping"}))
	assert.Equal(t, "pong", read().Type)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "action", Action: "jump"}))
	assert.Equal(t, "error", read().Type)

	// a menu run over REST reaches the stream
	code, _ := env.do(t, http.MethodPost, "/api/v1/ui/"+id+"/menus/scan/cablescan", nil)
	require.Equal(t, http.StatusOK, code)

	found := false
	for i := 0; i < 10 && !found; i++ {
		msg := read()
		if msg.Type != "snapshot" {
			continue
		}
		raw, err := json.Marshal(msg.Data)
		require.NoError(t, err)
		found = strings.Contains(string(raw), `"title":"Cable scan"`)
	}
	assert.True(t, found)
}

func TestWebSocketHandler_UnknownSession(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws/ui/7d444840-9dc0-11d1-b245-5ffdce74fad2", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
