// internal/models/models.go

package models

import (
	"time"
)

type DeviceType string

const (
	DeviceTemperature DeviceType = "temperature"
	DeviceHumidity    DeviceType = "humidity"
	DeviceMotion      DeviceType = "motion"
)

// Telemetry is the mutable reading block of a simulated device.
// Motion is only set for motion-type devices.
type Telemetry struct {
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
	BatteryLevel   int     `json:"batteryLevel"`
	SignalStrength int     `json:"signalStrength"`
	Motion         *bool   `json:"motion,omitempty"`
}

type Device struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      DeviceType `json:"type"`
	Zone      string     `json:"zone"`
	Online    bool       `json:"online"`
	Telemetry Telemetry  `json:"telemetry"`
}

// Clone returns a deep copy so callers outside the simulator cannot write
// through the motion pointer.
func (d Device) Clone() Device {
	if d.Telemetry.Motion != nil {
		m := *d.Telemetry.Motion
		d.Telemetry.Motion = &m
	}
	return d
}

type DeviceSeries struct {
	Temperature []float64 `json:"temperature"`
	Humidity    []float64 `json:"humidity"`
}

// History holds the charted rolling buffers. Every series is index-aligned
// with Labels.
type History struct {
	// Capacity is the rolling window length; Labels never exceed it.
	Capacity int                     `json:"capacity"`
	Labels   []string                `json:"labels"`
	Series   map[string]DeviceSeries `json:"series"`
}

type Snapshot struct {
	Devices       []Device  `json:"devices"`
	History       History   `json:"history"`
	Alerts        []Alert   `json:"alerts"`
	MessageCount  uint64    `json:"messageCount"`
	Paused        bool      `json:"paused"`
	OnlineDevices int       `json:"onlineDevices"`
	Timestamp     time.Time `json:"timestamp"`
}

type ChangeReason string

const (
	ChangeTick  ChangeReason = "tick"
	ChangeReset ChangeReason = "reset"
	ChangePause ChangeReason = "pause"
)

type MetricSummary struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Avg     float64 `json:"avg"`
	Current float64 `json:"current"`
}

type DeviceSummary struct {
	DeviceID    string        `json:"deviceId"`
	Samples     int           `json:"samples"`
	Temperature MetricSummary `json:"temperature"`
	Humidity    MetricSummary `json:"humidity"`
}

type StatsResponse struct {
	Ticks           uint64          `json:"ticks"`
	MessageCount    uint64          `json:"messageCount"`
	Paused          bool            `json:"paused"`
	OnlineDevices   int             `json:"onlineDevices"`
	ActiveAlerts    int             `json:"activeAlerts"`
	PendingExpiries int             `json:"pendingExpiries"`
	Uptime          string          `json:"uptime"`
	Devices         []DeviceSummary `json:"devices"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  struct {
		Simulator   bool `json:"simulator"`
		MQTTEnabled bool `json:"mqttEnabled"`
		MQTT        bool `json:"mqtt"`
	} `json:"services"`
	Broker  *BrokerHealth `json:"broker,omitempty"`
	Clients int           `json:"clients"`
}

// BrokerHealth describes the MQTT link when publishing is enabled.
type BrokerHealth struct {
	Connected      bool      `json:"connected"`
	Broker         string    `json:"broker"`
	LastConnected  time.Time `json:"lastConnected,omitzero"`
	LastDisconnect time.Time `json:"lastDisconnect,omitzero"`
	Subscriptions  int       `json:"subscriptions"`
}

// Command actions accepted from the render boundary.
const (
	ActionTogglePause = "toggle_pause"
	ActionPause       = "pause"
	ActionResume      = "resume"
	ActionReset       = "reset"
	ActionDismiss     = "dismiss"
	ActionClearAll    = "clear_all"
	ActionTestAlert   = "test_alert"
)

type Command struct {
	Action  string `json:"action"`
	AlertID string `json:"alertId,omitempty"`
}

type CommandResult struct {
	Action    string `json:"action"`
	Paused    bool   `json:"paused"`
	Dismissed bool   `json:"dismissed,omitempty"`
	Cleared   int    `json:"cleared,omitempty"`
	Alert     *Alert `json:"alert,omitempty"`
}
