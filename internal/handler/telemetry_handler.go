package handler

import (
	"net/http"

	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/models"

	"github.com/gorilla/mux"
)

type TelemetryHandler struct {
	dashboard Dashboard
	log       *logger.Logger
}

func NewTelemetryHandler(dashboard Dashboard, log *logger.Logger) *TelemetryHandler {
	return &TelemetryHandler{
		dashboard: dashboard,
		log:       log,
	}
}

func (h *TelemetryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/snapshot", h.GetSnapshot).Methods("GET")
	r.HandleFunc("/devices", h.ListDevices).Methods("GET")
	r.HandleFunc("/devices/{id}", h.GetDevice).Methods("GET")
	r.HandleFunc("/telemetry/history", h.GetHistory).Methods("GET")
	r.HandleFunc("/stats", h.GetStats).Methods("GET")
}

func (h *TelemetryHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.dashboard.Snapshot())
}

func (h *TelemetryHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.dashboard.Devices())
}

func (h *TelemetryHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	device, ok := h.dashboard.Device(id)
	if !ok {
		h.log.Debug("Device not found: %s", id)
		respondError(w, http.StatusNotFound, "Device not found")
		return
	}

	respondJSON(w, http.StatusOK, device)
}

// GetHistory returns the charted series. ?device= narrows the series map
// to one device while keeping the shared labels.
func (h *TelemetryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history := h.dashboard.History()

	if id := r.URL.Query().Get("device"); id != "" {
		series, ok := history.Series[id]
		if !ok {
			respondError(w, http.StatusNotFound, "Device not found")
			return
		}
		history.Series = map[string]models.DeviceSeries{id: series}
	}

	respondJSON(w, http.StatusOK, history)
}

func (h *TelemetryHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.dashboard.Stats())
}
