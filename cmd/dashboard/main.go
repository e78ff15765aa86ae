package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"ZeroTrustDashboard/internal/config"
	"ZeroTrustDashboard/internal/dashboard"
	"ZeroTrustDashboard/internal/handler"
	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/mqtt"
	"ZeroTrustDashboard/internal/server"
	"ZeroTrustDashboard/internal/websocket"

	"github.com/jonboulle/clockwork"
)

const publishQueueSize = 256

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		// Fallback logger since main logger isn't ready
		panic("Failed to load configuration: " + err.Error())
	}

	// 2. Initialize Logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Mode:        cfg.Logging.Mode,
		LogFilePath: cfg.Logging.FilePath,
		UseColors:   cfg.Logging.UseColors,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Close()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration validation failed: %v", err)
	}

	cfg.Print(os.Stdout)
	log.Info("Starting Zero-Trust IoT Dashboard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Simulation core
	ctrl := dashboard.Build(cfg, clockwork.NewRealClock(), log)

	// 4. WebSocket hub
	hub := websocket.NewHub(ctrl, log.Named("ws"))
	ctrl.Subscribe(hub)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	// 5. Optional MQTT mirror
	var broker handler.BrokerStatus
	if cfg.MQTT.Enabled {
		mqttClient := startMQTT(ctx, &wg, cfg, ctrl, log.Named("mqtt"))
		defer func() {
			if err := mqttClient.Disconnect(); err != nil {
				log.Error("Failed to disconnect MQTT: %v", err)
			}
		}()
		broker = mqttClient
	}

	// 6. Tick driver
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ctrl.Run(ctx); err != nil {
			log.Fatal("Tick driver failed: %v", err)
		}
	}()

	// 7. Handlers and HTTP server
	srv := server.New(cfg, log)
	srv.RegisterHandlers(ctx, server.Handlers{
		Telemetry: handler.NewTelemetryHandler(ctrl, log),
		Alerts:    handler.NewAlertHandler(ctrl, log),
		Control:   handler.NewControlHandler(ctrl, log),
		Health:    handler.NewHealthHandler(ctrl, broker, hub, log),
		Hub:       hub,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal("Server failed: %v", err)
		}
	}()

	log.Info("Dashboard ready on http://%s:%d (ws://%s:%d/ws)",
		cfg.Server.Host, cfg.Server.Port, cfg.Server.Host, cfg.Server.Port)

	// 8. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error: %v", err)
	}

	cancel()
	wg.Wait()

	log.Info("Shutdown complete")
}

// startMQTT connects the broker client, mirrors telemetry and alerts onto it
// and listens for control commands. A broker that is down at startup is
// logged, not fatal: the client keeps retrying and subscribes the control
// topic once it gets through.
func startMQTT(ctx context.Context, wg *sync.WaitGroup, cfg *config.Config, ctrl *dashboard.Controller, log *logger.Logger) *mqtt.Client {
	mqttClient, err := mqtt.NewClient(mqtt.ClientConfig{
		MQTT:   &cfg.MQTT,
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to create MQTT client: %v", err)
	}

	topics := mqtt.NewTopics(cfg.MQTT.TopicPrefix)

	publisher := mqtt.NewTelemetryPublisher(mqttClient, topics, publishQueueSize, log)
	ctrl.Subscribe(publisher)
	wg.Add(1)
	go func() {
		defer wg.Done()
		publisher.Run(ctx)
	}()

	// registered before dialing so the first successful connect subscribes it
	if err := mqttClient.Subscribe(topics.Control(), mqtt.ControlHandler(ctrl, mqttClient, topics, log)); err != nil {
		log.Error("Failed to subscribe to control topic: %v", err)
	}

	if err := mqttClient.Connect(); err != nil {
		log.Warn("MQTT broker unavailable: %v", err)
	}

	log.Info("MQTT publishing to %s/...", topics.Prefix)
	return mqttClient
}
