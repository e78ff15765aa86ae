package tui

import (
	"context"

	"ZeroTrustDashboard/internal/models"

	tea "github.com/charmbracelet/bubbletea"
)

type stateChangedMsg struct {
	reason models.ChangeReason
}

type alertEventMsg models.AlertEvent

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge forwards controller notifications into the bubbletea event loop.
// Notifications are queued without blocking because the controller may
// publish from inside Update, where a direct Program.Send would deadlock.
type Bridge struct {
	events chan tea.Msg
}

func NewBridge(size int) *Bridge {
	if size < 1 {
		size = 1
	}
	return &Bridge{events: make(chan tea.Msg, size)}
}

func (b *Bridge) OnStateChange(reason models.ChangeReason, _ models.Snapshot) {
	b.push(stateChangedMsg{reason: reason})
}

func (b *Bridge) OnAlert(evt models.AlertEvent) {
	b.push(alertEventMsg(evt))
}

func (b *Bridge) push(msg tea.Msg) {
	select {
	case b.events <- msg:
	default:
	}
}

// Run delivers queued notifications to s until ctx is done.
func (b *Bridge) Run(ctx context.Context, s Sender) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-b.events:
			s.Send(msg)
		}
	}
}
