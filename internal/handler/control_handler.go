package handler

import (
	"encoding/json"
	"net/http"

	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/models"

	"github.com/gorilla/mux"
)

type ControlHandler struct {
	dashboard Dashboard
	log       *logger.Logger
}

func NewControlHandler(dashboard Dashboard, log *logger.Logger) *ControlHandler {
	return &ControlHandler{
		dashboard: dashboard,
		log:       log,
	}
}

func (h *ControlHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/control/pause", h.TogglePause).Methods("POST")
	r.HandleFunc("/control/reset", h.Reset).Methods("POST")
	r.HandleFunc("/control/command", h.Execute).Methods("POST")
}

func (h *ControlHandler) TogglePause(w http.ResponseWriter, r *http.Request) {
	paused := h.dashboard.TogglePause()

	respondJSON(w, http.StatusOK, map[string]bool{
		"paused": paused,
	})
}

func (h *ControlHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.dashboard.Reset()

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Telemetry history and message counter reset",
	})
}

// Execute accepts the same command envelope as the WebSocket and MQTT
// control channels.
func (h *ControlHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var cmd models.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.log.Warn("Invalid request body: %v", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if cmd.Action == "" {
		respondError(w, http.StatusBadRequest, "action is required")
		return
	}

	res, err := h.dashboard.Execute(cmd)
	if err != nil {
		h.log.Warn("Command %q rejected: %v", cmd.Action, err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, res)
}
