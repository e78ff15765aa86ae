package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"ZeroTrustDashboard/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Alerts     AlertConfig
	MQTT       MQTTConfig
	Security   SecurityConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	Environment     string
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxHeaderBytes  int
}

type SimulationConfig struct {
	TickInterval      time.Duration
	HistorySize       int
	TemperatureJitter float64
	HumidityJitter    float64
	TemperatureMin    float64
	TemperatureMax    float64
	HumidityMin       float64
	HumidityMax       float64
	MotionProbability float64
	Seed              uint64
	LabelFormat       string
}

type AlertConfig struct {
	TriggerProbability float64
	HighTTL            time.Duration
	DefaultTTL         time.Duration
	// PauseGatesAlerts stops alert triggering and alert expiry while the
	// dashboard is paused. Set false to let alerts keep firing and expiring
	// during a pause.
	PauseGatesAlerts bool
}

type MQTTConfig struct {
	Enabled        bool
	Broker         string
	Port           int
	ClientID       string
	Username       string
	Password       string
	TopicPrefix    string
	QoS            byte
	RetainMessages bool
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	AutoReconnect  bool
	// RetryInterval spaces connection attempts while the broker has never
	// been reached.
	RetryInterval time.Duration
}

type SecurityConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	RateLimitPerMinute int
	EnableRateLimit    bool
}

type LoggingConfig struct {
	Level     logger.Level
	Mode      logger.Mode
	FilePath  string
	UseColors bool
}

// requiredWhenMQTT lists variables that must be set once MQTT publishing is on.
var requiredWhenMQTT = []string{
	"MQTT_BROKER",
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	mqttCfg := loadMQTTConfig()
	if mqttCfg.Enabled {
		if err := validateRequired(requiredWhenMQTT); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Server:     loadServerConfig(),
		Simulation: loadSimulationConfig(),
		Alerts:     loadAlertConfig(),
		MQTT:       mqttCfg,
		Security:   loadSecurityConfig(),
		Logging:    loadLoggingConfig(),
	}

	return cfg, nil
}

func validateRequired(keys []string) error {
	var missing []string

	for _, key := range keys {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Port:            getEnvAsInt("SERVER_PORT", 8080),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", "15s"),
		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", "10s"),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", "10s"),
		MaxHeaderBytes:  getEnvAsInt("MAX_HEADER_BYTES", 1048576),
	}
}

func loadSimulationConfig() SimulationConfig {
	return SimulationConfig{
		TickInterval:      getEnvAsDuration("SIM_TICK_INTERVAL", "5s"),
		HistorySize:       getEnvAsInt("SIM_HISTORY_SIZE", 20),
		TemperatureJitter: getEnvAsFloat("SIM_TEMP_JITTER", 0.25),
		HumidityJitter:    getEnvAsFloat("SIM_HUMIDITY_JITTER", 1.0),
		TemperatureMin:    getEnvAsFloat("SIM_TEMP_MIN", 18),
		TemperatureMax:    getEnvAsFloat("SIM_TEMP_MAX", 30),
		HumidityMin:       getEnvAsFloat("SIM_HUMIDITY_MIN", 30),
		HumidityMax:       getEnvAsFloat("SIM_HUMIDITY_MAX", 70),
		MotionProbability: getEnvAsFloat("SIM_MOTION_PROBABILITY", 0.10),
		Seed:              getEnvAsUint64("SIM_SEED", 0),
		LabelFormat:       getEnv("SIM_LABEL_FORMAT", "15:04:05"),
	}
}

func loadAlertConfig() AlertConfig {
	return AlertConfig{
		TriggerProbability: getEnvAsFloat("ALERT_PROBABILITY", 0.03),
		HighTTL:            getEnvAsDuration("ALERT_TTL_HIGH", "60s"),
		DefaultTTL:         getEnvAsDuration("ALERT_TTL_DEFAULT", "30s"),
		PauseGatesAlerts:   getEnvAsBool("ALERT_PAUSE_GATES", true),
	}
}

func loadMQTTConfig() MQTTConfig {
	return MQTTConfig{
		Enabled:        getEnvAsBool("MQTT_ENABLED", false),
		Broker:         getEnv("MQTT_BROKER", "localhost"),
		Port:           getEnvAsInt("MQTT_PORT", 1883),
		ClientID:       getEnv("MQTT_CLIENT_ID", "zerotrust-dashboard"),
		Username:       getEnv("MQTT_USERNAME", ""),
		Password:       getEnv("MQTT_PASSWORD", ""),
		TopicPrefix:    strings.TrimSuffix(getEnv("MQTT_TOPIC_PREFIX", "zerotrust"), "/"),
		QoS:            byte(getEnvAsInt("MQTT_QOS", 1)),
		RetainMessages: getEnvAsBool("MQTT_RETAIN", false),
		KeepAlive:      getEnvAsDuration("MQTT_KEEP_ALIVE", "60s"),
		ConnectTimeout: getEnvAsDuration("MQTT_CONNECT_TIMEOUT", "10s"),
		AutoReconnect:  getEnvAsBool("MQTT_AUTO_RECONNECT", true),
		RetryInterval:  getEnvAsDuration("MQTT_RETRY_INTERVAL", "5s"),
	}
}

func loadSecurityConfig() SecurityConfig {
	origins := getEnv("CORS_ALLOWED_ORIGINS", "*")
	methods := getEnv("CORS_ALLOWED_METHODS", "GET,POST,DELETE,OPTIONS")

	return SecurityConfig{
		CORSAllowedOrigins: strings.Split(origins, ","),
		CORSAllowedMethods: strings.Split(methods, ","),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		EnableRateLimit:    getEnvAsBool("ENABLE_RATE_LIMIT", true),
	}
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:     logger.ParseLevel(getEnv("LOG_LEVEL", "info")),
		Mode:      logger.ParseMode(getEnv("LOG_MODE", "normal")),
		FilePath:  getEnv("LOG_FILE_PATH", ""),
		UseColors: getEnvAsBool("LOG_USE_COLORS", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func (c *Config) GetMQTTBroker() string {
	return c.MQTT.BrokerURL()
}

func (m MQTTConfig) BrokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", m.Broker, m.Port)
}

func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}

	if c.MQTT.Enabled && (c.MQTT.Port < 1 || c.MQTT.Port > 65535) {
		errors = append(errors, "MQTT_PORT must be between 1 and 65535")
	}

	if c.MQTT.QoS > 2 {
		errors = append(errors, "MQTT_QOS must be 0, 1 or 2")
	}

	if c.MQTT.Enabled && c.MQTT.RetryInterval <= 0 {
		errors = append(errors, "MQTT_RETRY_INTERVAL must be positive")
	}

	sim := c.Simulation
	if sim.TickInterval <= 0 {
		errors = append(errors, "SIM_TICK_INTERVAL must be positive")
	}
	if sim.HistorySize < 1 {
		errors = append(errors, "SIM_HISTORY_SIZE must be at least 1")
	}
	if sim.TemperatureJitter < 0 || sim.HumidityJitter < 0 {
		errors = append(errors, "SIM_TEMP_JITTER and SIM_HUMIDITY_JITTER cannot be negative")
	}
	if sim.TemperatureMin >= sim.TemperatureMax {
		errors = append(errors, "SIM_TEMP_MIN must be below SIM_TEMP_MAX")
	}
	if sim.HumidityMin >= sim.HumidityMax {
		errors = append(errors, "SIM_HUMIDITY_MIN must be below SIM_HUMIDITY_MAX")
	}
	if !isProbability(sim.MotionProbability) {
		errors = append(errors, "SIM_MOTION_PROBABILITY must be within [0, 1]")
	}

	if !isProbability(c.Alerts.TriggerProbability) {
		errors = append(errors, "ALERT_PROBABILITY must be within [0, 1]")
	}
	if c.Alerts.HighTTL <= 0 || c.Alerts.DefaultTTL <= 0 {
		errors = append(errors, "ALERT_TTL_HIGH and ALERT_TTL_DEFAULT must be positive")
	}

	if c.Security.EnableRateLimit && c.Security.RateLimitPerMinute < 1 {
		errors = append(errors, "RATE_LIMIT_PER_MINUTE must be at least 1 when rate limiting is enabled")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}

func (c *Config) Print(w io.Writer) {
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║        Zero-Trust IoT Dashboard - Configuration          ║")
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════════╝")
	fmt.Fprintf(w, "Environment:     %s\n", c.Server.Environment)
	fmt.Fprintf(w, "Server:          %s:%d\n", c.Server.Host, c.Server.Port)
	fmt.Fprintf(w, "Tick Interval:   %s (history %d)\n", c.Simulation.TickInterval, c.Simulation.HistorySize)
	fmt.Fprintf(w, "Alerts:          p=%.2f high=%s default=%s pause-gated=%v\n",
		c.Alerts.TriggerProbability, c.Alerts.HighTTL, c.Alerts.DefaultTTL, c.Alerts.PauseGatesAlerts)
	if c.MQTT.Enabled {
		fmt.Fprintf(w, "MQTT Broker:     %s (prefix %s, retry %s)\n", c.GetMQTTBroker(), c.MQTT.TopicPrefix, c.MQTT.RetryInterval)
	} else {
		fmt.Fprintln(w, "MQTT Broker:     disabled")
	}
	fmt.Fprintln(w, "──────────────────────────────────────────────────────────")
}
