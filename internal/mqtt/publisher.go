package mqtt

import (
	"context"
	"time"

	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/models"
)

// Publisher is the outbound half of a broker connection.
type Publisher interface {
	PublishJSON(topic string, data interface{}) error
	IsConnected() bool
}

// DeviceMessage is the per-device payload published after each tick.
type DeviceMessage struct {
	DeviceID       string    `json:"deviceId"`
	Timestamp      time.Time `json:"timestamp"`
	Temperature    float64   `json:"temperature"`
	Humidity       float64   `json:"humidity"`
	Motion         *bool     `json:"motion,omitempty"`
	BatteryLevel   int       `json:"batteryLevel"`
	SignalStrength int       `json:"signalStrength"`
	MessageCount   uint64    `json:"messageCount"`
	DeviceType     string    `json:"deviceType"`
	Location       string    `json:"location"`
}

type AlertMessage struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	AlertLevel string    `json:"alertLevel"`
	Timestamp  time.Time `json:"timestamp"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type outbound struct {
	topic   string
	payload interface{}
}

// TelemetryPublisher mirrors dashboard state changes onto the broker. It
// queues messages so a slow broker never stalls the tick driver.
type TelemetryPublisher struct {
	pub    Publisher
	topics Topics
	log    *logger.Logger
	queue  chan outbound
}

func NewTelemetryPublisher(pub Publisher, topics Topics, queueSize int, log *logger.Logger) *TelemetryPublisher {
	if queueSize < 1 {
		queueSize = 1
	}
	return &TelemetryPublisher{
		pub:    pub,
		topics: topics,
		log:    log,
		queue:  make(chan outbound, queueSize),
	}
}

// Run drains the queue until ctx is cancelled.
func (p *TelemetryPublisher) Run(ctx context.Context) {
	p.log.Info("MQTT publisher started (prefix %q)", p.topics.Prefix)
	for {
		select {
		case <-ctx.Done():
			p.log.Info("MQTT publisher stopped")
			return
		case msg := <-p.queue:
			if !p.pub.IsConnected() {
				p.log.Debug("Broker offline, skipping publish to %s", msg.topic)
				continue
			}
			if err := p.pub.PublishJSON(msg.topic, msg.payload); err != nil {
				p.log.Warn("Publish to %s failed: %v", msg.topic, err)
			}
		}
	}
}

// OnStateChange publishes every device reading after a tick. Pause and
// reset notifications carry no new readings and are ignored.
func (p *TelemetryPublisher) OnStateChange(reason models.ChangeReason, snap models.Snapshot) {
	if reason != models.ChangeTick {
		return
	}
	for _, d := range snap.Devices {
		p.enqueue(p.topics.Telemetry(d.ID), DeviceMessage{
			DeviceID:       d.ID,
			Timestamp:      snap.Timestamp,
			Temperature:    d.Telemetry.Temperature,
			Humidity:       d.Telemetry.Humidity,
			Motion:         d.Telemetry.Motion,
			BatteryLevel:   d.Telemetry.BatteryLevel,
			SignalStrength: d.Telemetry.SignalStrength,
			MessageCount:   snap.MessageCount,
			DeviceType:     string(d.Type),
			Location:       d.Zone,
		})
	}
}

// OnAlert publishes newly raised alerts only.
func (p *TelemetryPublisher) OnAlert(evt models.AlertEvent) {
	if evt.Type != models.AlertRaised || evt.Alert == nil {
		return
	}
	a := evt.Alert
	p.enqueue(p.topics.Alerts(), AlertMessage{
		ID:         a.ID,
		Title:      a.Title,
		Message:    a.Message,
		AlertLevel: string(a.Severity),
		Timestamp:  a.Timestamp,
		ExpiresAt:  a.ExpiresAt,
	})
}

func (p *TelemetryPublisher) enqueue(topic string, payload interface{}) {
	select {
	case p.queue <- outbound{topic: topic, payload: payload}:
	default:
		p.log.Warn("MQTT publish queue full, dropping message for %s", topic)
	}
}
