package handler

import (
	"net/http"

	"ZeroTrustDashboard/internal/logger"

	"github.com/gorilla/mux"
)

type AlertHandler struct {
	dashboard Dashboard
	log       *logger.Logger
}

func NewAlertHandler(dashboard Dashboard, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		dashboard: dashboard,
		log:       log,
	}
}

func (h *AlertHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/alerts", h.GetActiveAlerts).Methods("GET")
	r.HandleFunc("/alerts", h.ClearAll).Methods("DELETE")
	r.HandleFunc("/alerts/test", h.SendTest).Methods("POST")
	r.HandleFunc("/alerts/{id}", h.Dismiss).Methods("DELETE")
}

func (h *AlertHandler) GetActiveAlerts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.dashboard.Alerts())
}

func (h *AlertHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	alert := h.dashboard.RaiseTestAlert()

	h.log.Info("Simulation: Test alert %q raised (%s)", alert.Title, alert.Severity)
	respondJSON(w, http.StatusCreated, alert)
}

// Dismiss is idempotent: an unknown or already-removed id still answers 200.
func (h *AlertHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	dismissed := h.dashboard.Dismiss(id)
	if dismissed {
		h.log.Info("Alert dismissed: %s", id)
	}

	respondJSON(w, http.StatusOK, map[string]bool{
		"dismissed": dismissed,
	})
}

func (h *AlertHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	cleared := h.dashboard.ClearAll()

	h.log.Info("Cleared %d alerts", cleared)
	respondJSON(w, http.StatusOK, map[string]int{
		"cleared": cleared,
	})
}
