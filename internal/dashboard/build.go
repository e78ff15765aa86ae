package dashboard

import (
	"ZeroTrustDashboard/internal/alerting"
	"ZeroTrustDashboard/internal/config"
	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/random"
	"ZeroTrustDashboard/internal/simulator"

	"github.com/jonboulle/clockwork"
)

// Build wires a Controller from configuration with the default roster and
// alert catalog.
func Build(cfg *config.Config, clk clockwork.Clock, log *logger.Logger) *Controller {
	sc := cfg.Simulation
	rnd := random.New(sc.Seed)

	sim := simulator.New(simulator.Config{
		HistorySize:       sc.HistorySize,
		TemperatureJitter: sc.TemperatureJitter,
		HumidityJitter:    sc.HumidityJitter,
		TemperatureMin:    sc.TemperatureMin,
		TemperatureMax:    sc.TemperatureMax,
		HumidityMin:       sc.HumidityMin,
		HumidityMax:       sc.HumidityMax,
		MotionProbability: sc.MotionProbability,
		LabelFormat:       sc.LabelFormat,
	}, simulator.DefaultRoster(), rnd)

	engine := alerting.NewEngine(alerting.Config{
		TriggerProbability: cfg.Alerts.TriggerProbability,
		HighTTL:            cfg.Alerts.HighTTL,
		DefaultTTL:         cfg.Alerts.DefaultTTL,
	}, alerting.DefaultCatalog(), rnd, clk, log.Named("alerts"))

	return New(Config{
		TickInterval:     sc.TickInterval,
		PauseGatesAlerts: cfg.Alerts.PauseGatesAlerts,
	}, sim, engine, clk, log.Named("dashboard"))
}
