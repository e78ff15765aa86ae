package handler

import "ZeroTrustDashboard/internal/models"

// Dashboard is the controller surface the HTTP handlers depend on.
type Dashboard interface {
	Snapshot() models.Snapshot
	Devices() []models.Device
	Device(id string) (models.Device, bool)
	History() models.History
	Stats() models.StatsResponse

	Alerts() []models.Alert
	RaiseTestAlert() models.Alert
	Dismiss(id string) bool
	ClearAll() int

	TogglePause() bool
	Reset()
	Execute(cmd models.Command) (models.CommandResult, error)

	Running() bool
}
