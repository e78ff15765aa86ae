package config

import (
	"bytes"
	"testing"
	"time"

	"ZeroTrustDashboard/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, 5*time.Second, cfg.Simulation.TickInterval)
	assert.Equal(t, 20, cfg.Simulation.HistorySize)
	assert.Equal(t, 0.25, cfg.Simulation.TemperatureJitter)
	assert.Equal(t, 1.0, cfg.Simulation.HumidityJitter)
	assert.Equal(t, 18.0, cfg.Simulation.TemperatureMin)
	assert.Equal(t, 30.0, cfg.Simulation.TemperatureMax)
	assert.Equal(t, 30.0, cfg.Simulation.HumidityMin)
	assert.Equal(t, 70.0, cfg.Simulation.HumidityMax)
	assert.Equal(t, 0.10, cfg.Simulation.MotionProbability)
	assert.Equal(t, uint64(0), cfg.Simulation.Seed)

	assert.Equal(t, 0.03, cfg.Alerts.TriggerProbability)
	assert.Equal(t, 60*time.Second, cfg.Alerts.HighTTL)
	assert.Equal(t, 30*time.Second, cfg.Alerts.DefaultTTL)
	assert.True(t, cfg.Alerts.PauseGatesAlerts)

	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, "zerotrust", cfg.MQTT.TopicPrefix)

	assert.Equal(t, []string{"*"}, cfg.Security.CORSAllowedOrigins)
	assert.Equal(t, logger.INFO, cfg.Logging.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SIM_TICK_INTERVAL", "250ms")
	t.Setenv("SIM_HISTORY_SIZE", "50")
	t.Setenv("SIM_SEED", "1234")
	t.Setenv("ALERT_PROBABILITY", "0.5")
	t.Setenv("ALERT_PAUSE_GATES", "false")
	t.Setenv("MQTT_TOPIC_PREFIX", "lab/demo/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, 50, cfg.Simulation.HistorySize)
	assert.Equal(t, uint64(1234), cfg.Simulation.Seed)
	assert.Equal(t, 0.5, cfg.Alerts.TriggerProbability)
	assert.False(t, cfg.Alerts.PauseGatesAlerts)
	assert.Equal(t, "lab/demo", cfg.MQTT.TopicPrefix)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.CORSAllowedOrigins)
	assert.Equal(t, logger.DEBUG, cfg.Logging.Level)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("SIM_TICK_INTERVAL", "soon")
	t.Setenv("SIM_TEMP_JITTER", "abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Simulation.TickInterval)
	assert.Equal(t, 0.25, cfg.Simulation.TemperatureJitter)
}

func TestLoad_MQTTRequiresBroker(t *testing.T) {
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_BROKER", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MQTT_BROKER")

	t.Setenv("MQTT_BROKER", "broker.local")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "tcp://broker.local:1883", cfg.GetMQTTBroker())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"bad server port", func(c *Config) { c.Server.Port = 0 }, "SERVER_PORT"},
		{"zero tick", func(c *Config) { c.Simulation.TickInterval = 0 }, "SIM_TICK_INTERVAL"},
		{"empty history", func(c *Config) { c.Simulation.HistorySize = 0 }, "SIM_HISTORY_SIZE"},
		{"inverted temp range", func(c *Config) { c.Simulation.TemperatureMin = 40 }, "SIM_TEMP_MIN"},
		{"inverted humidity range", func(c *Config) { c.Simulation.HumidityMax = 10 }, "SIM_HUMIDITY_MIN"},
		{"negative jitter", func(c *Config) { c.Simulation.HumidityJitter = -1 }, "JITTER"},
		{"motion probability", func(c *Config) { c.Simulation.MotionProbability = 1.5 }, "SIM_MOTION_PROBABILITY"},
		{"alert probability", func(c *Config) { c.Alerts.TriggerProbability = -0.1 }, "ALERT_PROBABILITY"},
		{"alert ttl", func(c *Config) { c.Alerts.HighTTL = 0 }, "ALERT_TTL_HIGH"},
		{"mqtt qos", func(c *Config) { c.MQTT.QoS = 3 }, "MQTT_QOS"},
		{"mqtt port", func(c *Config) { c.MQTT.Enabled = true; c.MQTT.Port = 70000 }, "MQTT_PORT"},
		{"mqtt retry", func(c *Config) { c.MQTT.Enabled = true; c.MQTT.RetryInterval = 0 }, "MQTT_RETRY_INTERVAL"},
		{"rate limit", func(c *Config) { c.Security.RateLimitPerMinute = 0 }, "RATE_LIMIT_PER_MINUTE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Server.Port = -1
	cfg.Simulation.HistorySize = 0

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "SIM_HISTORY_SIZE")
}

func TestPrint(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	var buf bytes.Buffer
	cfg.Print(&buf)

	assert.Contains(t, buf.String(), "Tick Interval:   5s (history 20)")
	assert.Contains(t, buf.String(), "MQTT Broker:     disabled")
}

func TestPrint_MQTTBroker(t *testing.T) {
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_BROKER", "broker.local")
	t.Setenv("MQTT_PORT", "8883")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.MQTT.RetryInterval)

	var buf bytes.Buffer
	cfg.Print(&buf)

	assert.Contains(t, buf.String(), "MQTT Broker:     tcp://broker.local:8883 (prefix zerotrust, retry 5s)")
}
