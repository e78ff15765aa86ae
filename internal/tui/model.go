// Package tui renders the dashboard in a terminal with bubbletea.
package tui

import (
	"fmt"
	"strings"
	"time"

	"ZeroTrustDashboard/internal/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Backend is the controller surface the terminal view drives.
type Backend interface {
	Snapshot() models.Snapshot
	TogglePause() bool
	Reset()
	ClearAll() int
	Dismiss(id string) bool
	RaiseTestAlert() models.Alert
}

// Ranges bound the sparkline scales.
type Ranges struct {
	TemperatureMin, TemperatureMax float64
	HumidityMin, HumidityMax       float64
}

type Model struct {
	backend Backend
	ranges  Ranges
	snap    models.Snapshot
	status  string
	width   int
	height  int
}

func New(backend Backend, ranges Ranges) Model {
	return Model{
		backend: backend,
		ranges:  ranges,
		snap:    backend.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case stateChangedMsg:
		m.snap = m.backend.Snapshot()
	case alertEventMsg:
		m.snap = m.backend.Snapshot()
		m.status = describeAlertEvent(models.AlertEvent(msg))
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "p", " ":
		if m.backend.TogglePause() {
			m.status = "Simulation paused"
		} else {
			m.status = "Simulation resumed"
		}
	case "r":
		m.backend.Reset()
		m.status = "History and message counter reset"
	case "c":
		m.status = fmt.Sprintf("Cleared %d alerts", m.backend.ClearAll())
	case "d":
		if len(m.snap.Alerts) == 0 {
			m.status = "No alerts to dismiss"
			break
		}
		newest := m.snap.Alerts[0]
		if m.backend.Dismiss(newest.ID) {
			m.status = "Dismissed: " + newest.Title
		}
	case "t":
		alert := m.backend.RaiseTestAlert()
		m.status = "Test alert: " + alert.Title
	default:
		return m, nil
	}
	m.snap = m.backend.Snapshot()
	return m, nil
}

func describeAlertEvent(evt models.AlertEvent) string {
	switch evt.Type {
	case models.AlertRaised:
		if evt.Alert != nil {
			return fmt.Sprintf("New %s alert: %s", evt.Alert.Severity, evt.Alert.Title)
		}
	case models.AlertExpired:
		return "Alert expired"
	case models.AlertCleared:
		return fmt.Sprintf("Cleared %d alerts", evt.Count)
	}
	return ""
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{
		m.renderHeader(),
		m.renderDevices(),
		m.renderCharts(),
		m.renderAlerts(),
		m.renderStatusBar(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	state := okStyle.Render("● LIVE")
	if m.snap.Paused {
		state = warnStyle.Render("❚❚ PAUSED")
	}

	return titleStyle.Render("ZERO TRUST IoT DASHBOARD") + "  " + state + "  " +
		labelStyle.Render("devices ") + valueStyle.Render(fmt.Sprintf("%d/%d", m.snap.OnlineDevices, len(m.snap.Devices))) + "  " +
		labelStyle.Render("messages ") + valueStyle.Render(fmt.Sprintf("%d", m.snap.MessageCount)) + "  " +
		labelStyle.Render("alerts ") + alertCountStyle(len(m.snap.Alerts)).Render(fmt.Sprintf("%d", len(m.snap.Alerts)))
}

func alertCountStyle(n int) lipgloss.Style {
	if n > 0 {
		return critStyle
	}
	return okStyle
}

func (m Model) panelWidth() int {
	w := m.width - 2
	if w < 40 {
		w = 40
	}
	return w
}

func (m Model) renderDevices() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(
		padRight("DEVICE", 28) + padRight("TYPE", 12) + padRight("ZONE", 8) +
			padRight("TEMP", 10) + padRight("HUM", 8) + padRight("MOTION", 9) +
			padRight("BATT", 6) + "SIGNAL"))

	for _, d := range m.snap.Devices {
		t := d.Telemetry
		motion := "-"
		if t.Motion != nil {
			motion = "clear"
			if *t.Motion {
				motion = "DETECTED"
			}
		}
		sb.WriteString("\n")
		sb.WriteString(valueStyle.Render(padRight(truncate(d.Name, 27), 28)))
		sb.WriteString(labelStyle.Render(padRight(string(d.Type), 12)))
		sb.WriteString(labelStyle.Render(padRight(d.Zone, 8)))
		sb.WriteString(valueStyle.Render(padRight(fmt.Sprintf("%.2f°C", t.Temperature), 10)))
		sb.WriteString(valueStyle.Render(padRight(fmt.Sprintf("%.1f%%", t.Humidity), 8)))
		if motion == "DETECTED" {
			sb.WriteString(warnStyle.Render(padRight(motion, 9)))
		} else {
			sb.WriteString(dimStyle.Render(padRight(motion, 9)))
		}
		sb.WriteString(batteryStyle(t.BatteryLevel).Render(padRight(fmt.Sprintf("%d%%", t.BatteryLevel), 6)))
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%d dBm", t.SignalStrength)))
	}

	return panelStyle.Width(m.panelWidth()).Render(sb.String())
}

func (m Model) renderCharts() string {
	labels := m.snap.History.Labels
	span := "no samples yet"
	if len(labels) > 0 {
		span = labels[0] + " → " + labels[len(labels)-1]
	}

	width := m.panelWidth() - 60
	if width < 20 {
		width = 20
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("TELEMETRY") + "  " + dimStyle.Render(span))

	for _, d := range m.snap.Devices {
		series, ok := m.snap.History.Series[d.ID]
		if !ok {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render(padRight(truncate(d.Name, 21), 22)))
		sb.WriteString(labelStyle.Render("T "))
		sb.WriteString(sparkline(series.Temperature, width/2, m.ranges.TemperatureMin, m.ranges.TemperatureMax, "°C"))
		sb.WriteString("  ")
		sb.WriteString(labelStyle.Render("H "))
		sb.WriteString(sparkline(series.Humidity, width/2, m.ranges.HumidityMin, m.ranges.HumidityMax, "%"))
	}

	return panelStyle.Width(m.panelWidth()).Render(sb.String())
}

func (m Model) renderAlerts() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("SECURITY ALERTS (%d)", len(m.snap.Alerts))))

	if len(m.snap.Alerts) == 0 {
		sb.WriteString("\n" + okStyle.Render("No active alerts"))
		return panelStyle.Width(m.panelWidth()).Render(sb.String())
	}

	for _, a := range m.snap.Alerts {
		left := a.ExpiresAt.Sub(m.snap.Timestamp).Round(time.Second)
		if left < 0 {
			left = 0
		}
		sb.WriteString("\n")
		sb.WriteString(severityStyle(a.Severity).Render(padRight(strings.ToUpper(string(a.Severity)), 8)))
		sb.WriteString(valueStyle.Render(padRight(truncate(a.Title, 34), 36)))
		sb.WriteString(labelStyle.Render(truncate(a.Message, 50)))
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  %s  expires in %s", a.Timestamp.Format("15:04:05"), left)))
	}

	return alertPanelStyle.Width(m.panelWidth()).Render(sb.String())
}

func (m Model) renderStatusBar() string {
	help := helpStyle.Render("p pause  r reset  c clear  d dismiss newest  t test alert  q quit")
	if m.status == "" {
		return help
	}
	return help + "  " + orangeStyle.Render(m.status)
}
