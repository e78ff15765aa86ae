package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"

	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/models"
)

// Topics derives every topic the dashboard uses from one prefix.
type Topics struct {
	Prefix string
}

func NewTopics(prefix string) Topics {
	return Topics{Prefix: strings.TrimSuffix(prefix, "/")}
}

func (t Topics) Telemetry(deviceID string) string {
	return fmt.Sprintf("%s/devices/%s/telemetry", t.Prefix, deviceID)
}

func (t Topics) Alerts() string {
	return t.Prefix + "/alerts"
}

func (t Topics) Control() string {
	return t.Prefix + "/control"
}

func (t Topics) ControlResult() string {
	return t.Prefix + "/control/result"
}

// Executor runs dashboard commands.
type Executor interface {
	Execute(cmd models.Command) (models.CommandResult, error)
}

// ControlHandler decodes commands arriving on the control topic and runs
// them. When pub is non-nil each result is echoed to the result topic.
func ControlHandler(exec Executor, pub Publisher, topics Topics, log *logger.Logger) MessageHandler {
	return func(topic string, payload []byte) error {
		var cmd models.Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return fmt.Errorf("invalid control payload: %w", err)
		}

		log.Info("Control command received on %s: %s", topic, cmd.Action)

		res, err := exec.Execute(cmd)
		if err != nil {
			return fmt.Errorf("control command %q failed: %w", cmd.Action, err)
		}

		if pub == nil {
			return nil
		}
		if err := pub.PublishJSON(topics.ControlResult(), res); err != nil {
			log.Warn("Failed to publish control result: %v", err)
		}
		return nil
	}
}
