// Package dashboard holds the simulation state container and the periodic
// tick driver that advances it.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ZeroTrustDashboard/internal/alerting"
	"ZeroTrustDashboard/internal/logger"
	"ZeroTrustDashboard/internal/models"
	"ZeroTrustDashboard/internal/simulator"

	"github.com/jonboulle/clockwork"
)

var ErrUnknownAction = errors.New("unknown command action")

type Config struct {
	TickInterval time.Duration
	// PauseGatesAlerts suppresses alert triggering and suspends alert
	// expiry while paused, in addition to telemetry mutation.
	PauseGatesAlerts bool
}

// Observer is notified whenever the render-facing state changes. Calls
// arrive without Controller locks held; implementations may read from the
// Controller but must not mutate it synchronously.
type Observer interface {
	OnStateChange(reason models.ChangeReason, snap models.Snapshot)
	OnAlert(evt models.AlertEvent)
}

// Controller is the single owner of simulator state, counters and the
// alert engine. All mutation goes through its methods.
type Controller struct {
	cfg    Config
	sim    *simulator.Simulator
	alerts *alerting.Engine
	clock  clockwork.Clock
	log    *logger.Logger

	mu           sync.RWMutex
	paused       bool
	messageCount uint64
	ticks        uint64
	startedAt    time.Time

	obsMu     sync.RWMutex
	observers []Observer

	running atomic.Bool
}

func New(cfg Config, sim *simulator.Simulator, alerts *alerting.Engine, clk clockwork.Clock, log *logger.Logger) *Controller {
	c := &Controller{
		cfg:       cfg,
		sim:       sim,
		alerts:    alerts,
		clock:     clk,
		log:       log,
		startedAt: clk.Now(),
	}
	alerts.SetListener(c.publishAlert)
	return c
}

func (c *Controller) Subscribe(o Observer) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.observers = append(c.observers, o)
}

// Run drives Tick at the configured interval until ctx is cancelled.
// Pausing never stops the ticker; paused ticks are no-ops.
func (c *Controller) Run(ctx context.Context) error {
	if c.cfg.TickInterval <= 0 {
		return fmt.Errorf("invalid tick interval: %v", c.cfg.TickInterval)
	}

	ticker := c.clock.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	c.running.Store(true)
	defer c.running.Store(false)

	c.log.Info("Tick driver started (interval %s)", c.cfg.TickInterval)
	for {
		select {
		case <-ctx.Done():
			c.log.Info("Tick driver stopped after %d ticks", c.Ticks())
			return nil
		case <-ticker.Chan():
			c.Tick()
		}
	}
}

// Running reports whether the tick driver loop is active.
func (c *Controller) Running() bool {
	return c.running.Load()
}

// Tick runs one update cycle: telemetry, alert draw, counter, notify.
func (c *Controller) Tick() {
	c.mu.Lock()
	paused := c.paused
	if !paused {
		c.sim.Tick(c.clock.Now())
		c.ticks++
	}
	c.mu.Unlock()

	if !paused || !c.cfg.PauseGatesAlerts {
		c.alerts.MaybeTrigger()
	}

	if paused {
		return
	}

	c.mu.Lock()
	c.messageCount += uint64(c.sim.OnlineCount())
	c.mu.Unlock()

	c.publishState(models.ChangeTick)
}

func (c *Controller) TogglePause() bool {
	c.mu.Lock()
	paused := !c.paused
	c.setPausedLocked(paused)
	c.mu.Unlock()

	c.log.Info("Simulation %s", pauseWord(paused))
	c.publishState(models.ChangePause)
	return paused
}

// SetPaused sets the pause flag explicitly. It reports whether the flag changed.
func (c *Controller) SetPaused(paused bool) bool {
	c.mu.Lock()
	changed := c.paused != paused
	c.setPausedLocked(paused)
	c.mu.Unlock()

	if changed {
		c.log.Info("Simulation %s", pauseWord(paused))
		c.publishState(models.ChangePause)
	}
	return changed
}

// setPausedLocked flips the flag and, when pause gates alerts, stops or
// restarts alert expiry with it. Caller holds c.mu.
func (c *Controller) setPausedLocked(paused bool) {
	c.paused = paused
	if !c.cfg.PauseGatesAlerts {
		return
	}
	if paused {
		c.alerts.Suspend()
	} else {
		c.alerts.Resume()
	}
}

func (c *Controller) Paused() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paused
}

// Reset clears history and zeroes the message counter. Device readings,
// active alerts and the tick driver are left alone.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.sim.Reset()
	c.messageCount = 0
	c.mu.Unlock()

	c.log.Info("Telemetry history and message counter reset")
	c.publishState(models.ChangeReset)
}

func (c *Controller) Dismiss(id string) bool {
	return c.alerts.Dismiss(id)
}

func (c *Controller) ClearAll() int {
	return c.alerts.ClearAll()
}

func (c *Controller) RaiseTestAlert() models.Alert {
	return c.alerts.RaiseRandom()
}

func (c *Controller) Alerts() []models.Alert {
	return c.alerts.Active()
}

func (c *Controller) Devices() []models.Device {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sim.Devices()
}

func (c *Controller) Device(id string) (models.Device, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sim.Device(id)
}

func (c *Controller) History() models.History {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sim.History()
}

func (c *Controller) MessageCount() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.messageCount
}

func (c *Controller) Ticks() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ticks
}

func (c *Controller) Snapshot() models.Snapshot {
	c.mu.RLock()
	snap := models.Snapshot{
		Devices:       c.sim.Devices(),
		History:       c.sim.History(),
		MessageCount:  c.messageCount,
		Paused:        c.paused,
		OnlineDevices: c.sim.OnlineCount(),
		Timestamp:     c.clock.Now(),
	}
	c.mu.RUnlock()

	snap.Alerts = c.alerts.Active()
	return snap
}

func (c *Controller) Stats() models.StatsResponse {
	c.mu.RLock()
	stats := models.StatsResponse{
		Ticks:         c.ticks,
		MessageCount:  c.messageCount,
		Paused:        c.paused,
		OnlineDevices: c.sim.OnlineCount(),
		Uptime:        c.clock.Now().Sub(c.startedAt).Truncate(time.Second).String(),
		Devices:       c.sim.Summaries(),
	}
	c.mu.RUnlock()

	stats.ActiveAlerts = len(c.alerts.Active())
	stats.PendingExpiries = c.alerts.PendingExpiries()
	return stats
}

// Execute applies a transport-neutral command from the render boundary.
func (c *Controller) Execute(cmd models.Command) (models.CommandResult, error) {
	res := models.CommandResult{Action: cmd.Action}

	switch cmd.Action {
	case models.ActionTogglePause:
		c.TogglePause()
	case models.ActionPause:
		c.SetPaused(true)
	case models.ActionResume:
		c.SetPaused(false)
	case models.ActionReset:
		c.Reset()
	case models.ActionDismiss:
		if cmd.AlertID == "" {
			return res, fmt.Errorf("dismiss: alertId is required")
		}
		res.Dismissed = c.Dismiss(cmd.AlertID)
	case models.ActionClearAll:
		res.Cleared = c.ClearAll()
	case models.ActionTestAlert:
		alert := c.RaiseTestAlert()
		res.Alert = &alert
	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	res.Paused = c.Paused()
	return res, nil
}

func (c *Controller) publishState(reason models.ChangeReason) {
	c.obsMu.RLock()
	observers := append([]Observer(nil), c.observers...)
	c.obsMu.RUnlock()

	if len(observers) == 0 {
		return
	}

	snap := c.Snapshot()
	for _, o := range observers {
		o.OnStateChange(reason, snap)
	}
}

func (c *Controller) publishAlert(evt models.AlertEvent) {
	c.obsMu.RLock()
	observers := append([]Observer(nil), c.observers...)
	c.obsMu.RUnlock()

	for _, o := range observers {
		o.OnAlert(evt)
	}
}

func pauseWord(paused bool) string {
	if paused {
		return "paused"
	}
	return "resumed"
}
