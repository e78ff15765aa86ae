package models

import "time"

type Severity string

// Alert severities
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AlertTemplate is one catalog entry; alerts copy it verbatim.
type AlertTemplate struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Alert is a transient security event. Only ExpiresAt ever changes after
// creation, when a pause delays its expiry.
type Alert struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AlertEventType string

const (
	AlertRaised    AlertEventType = "raised"
	AlertDismissed AlertEventType = "dismissed"
	AlertExpired   AlertEventType = "expired"
	AlertCleared   AlertEventType = "cleared"
)

// AlertEvent reports a change to the active-alerts collection. Alert is nil
// for AlertCleared; Count holds the number of alerts removed.
type AlertEvent struct {
	Type    AlertEventType `json:"type"`
	AlertID string         `json:"alertId,omitempty"`
	Alert   *Alert         `json:"alert,omitempty"`
	Count   int            `json:"count,omitempty"`
}
