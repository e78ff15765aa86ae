package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ZeroTrustDashboard/internal/config"
	"ZeroTrustDashboard/internal/dashboard"
	"ZeroTrustDashboard/internal/handler"
	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/models"
	"ZeroTrustDashboard/internal/websocket"

	gws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	ctrl *dashboard.Controller
	srv  *httptest.Server
}

func newStack(t *testing.T) stack {
	t.Helper()
	t.Setenv("MQTT_ENABLED", "false")
	t.Setenv("SIM_SEED", "99")
	t.Setenv("ALERT_PROBABILITY", "0")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	log, err := logger.New(logger.Config{Level: logger.FATAL, Output: io.Discard})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ctrl := dashboard.Build(cfg, clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)), log)
	hub := websocket.NewHub(ctrl, log)
	ctrl.Subscribe(hub)
	go hub.Run(ctx)

	s := New(cfg, log)
	s.RegisterHandlers(ctx, Handlers{
		Telemetry: handler.NewTelemetryHandler(ctrl, log),
		Alerts:    handler.NewAlertHandler(ctrl, log),
		Control:   handler.NewControlHandler(ctrl, log),
		Health:    handler.NewHealthHandler(ctrl, nil, hub, log),
		Hub:       hub,
	})

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return stack{ctrl: ctrl, srv: srv}
}

func TestServer_RoutesAndMiddleware(t *testing.T) {
	st := newStack(t)
	st.ctrl.Tick()

	req, err := http.NewRequest(http.MethodGet, st.srv.URL+"/api/v1/snapshot", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://dashboard.local")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var snap models.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, uint64(3), snap.MessageCount)

	live, err := http.Get(st.srv.URL + "/health/live")
	require.NoError(t, err)
	live.Body.Close()
	assert.Equal(t, http.StatusOK, live.StatusCode)

	ready, err := http.Get(st.srv.URL + "/health/ready")
	require.NoError(t, err)
	ready.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, ready.StatusCode, "tick driver not started")

	missing, err := http.Get(st.srv.URL + "/api/v1/nothing")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestServer_WebSocketPush(t *testing.T) {
	st := newStack(t)

	url := "ws" + strings.TrimPrefix(st.srv.URL, "http") + "/ws"
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	readMsg := func() websocket.Message {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg websocket.Message
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	assert.Equal(t, websocket.MsgSnapshot, readMsg().Type)

	st.ctrl.Tick()
	msg := readMsg()
	assert.Equal(t, websocket.MsgSnapshot, msg.Type)
	assert.Equal(t, string(models.ChangeTick), msg.Reason)

	require.NoError(t, conn.WriteJSON(models.Command{Action: models.ActionTestAlert}))

	// the alert broadcast and the command reply race; collect both
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		seen[readMsg().Type] = true
	}
	assert.True(t, seen[websocket.MsgAlert])
	assert.True(t, seen[websocket.MsgCommandResult])
	assert.Len(t, st.ctrl.Alerts(), 1)
}
