package handler

import (
	"net/http"
	"time"

	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/models"

	"github.com/gorilla/mux"
)

// BrokerStatus reports the broker link. A nil BrokerStatus means MQTT is
// disabled and does not count against health.
type BrokerStatus interface {
	Health() models.BrokerHealth
}

// ClientCounter reports connected push clients.
type ClientCounter interface {
	ClientCount() int
}

type HealthHandler struct {
	dashboard Dashboard
	broker    BrokerStatus
	clients   ClientCounter
	log       *logger.Logger
}

func NewHealthHandler(dashboard Dashboard, broker BrokerStatus, clients ClientCounter, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		dashboard: dashboard,
		broker:    broker,
		clients:   clients,
		log:       log,
	}
}

func (h *HealthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/health/live", h.Liveness).Methods("GET")
	r.HandleFunc("/health/ready", h.Readiness).Methods("GET")
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	}

	response.Services.Simulator = h.dashboard.Running()
	if h.broker != nil {
		broker := h.broker.Health()
		response.Services.MQTTEnabled = true
		response.Services.MQTT = broker.Connected
		response.Broker = &broker
	}
	if h.clients != nil {
		response.Clients = h.clients.ClientCount()
	}

	if !response.Services.Simulator || (response.Services.MQTTEnabled && !response.Services.MQTT) {
		response.Status = "degraded"
		h.log.Warn("Health check degraded - Simulator: %v, MQTT: %v", response.Services.Simulator, response.Services.MQTT)
	}

	statusCode := http.StatusOK
	if response.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	respondJSON(w, statusCode, response)
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
	})
}

// Readiness only requires the tick driver; a missing broker degrades
// health but does not stop the dashboard from serving.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if !h.dashboard.Running() {
		h.log.Warn("Readiness check failed - tick driver not running")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
