package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"ZeroTrustDashboard/internal/config"
	"ZeroTrustDashboard/internal/dashboard"
	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation failed: %v\n", err)
		os.Exit(1)
	}

	logPath := cfg.Logging.FilePath
	if logPath == "" {
		logPath = "dashboard-tui.log"
	}

	// the terminal belongs to bubbletea; logs go to the file only
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Mode:        cfg.Logging.Mode,
		LogFilePath: logPath,
		Output:      io.Discard,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := dashboard.Build(cfg, clockwork.NewRealClock(), log)
	bridge := tui.NewBridge(64)
	ctrl.Subscribe(bridge)

	model := tui.New(ctrl, tui.Ranges{
		TemperatureMin: cfg.Simulation.TemperatureMin,
		TemperatureMax: cfg.Simulation.TemperatureMax,
		HumidityMin:    cfg.Simulation.HumidityMin,
		HumidityMax:    cfg.Simulation.HumidityMax,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	go bridge.Run(ctx, p)
	go func() {
		if err := ctrl.Run(ctx); err != nil {
			log.Error("Tick driver failed: %v", err)
			p.Quit()
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
