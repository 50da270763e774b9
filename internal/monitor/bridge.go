package monitor

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/nodehealth/internal/health"
	"github.com/rileyhilliard/nodehealth/internal/stats"
)

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge forwards reports and snapshots from the background loops to the
// Bubble Tea program via program.Send(). This is goroutine-safe.
type Bridge struct {
	program Sender
}

// NewBridge creates a new bridge that forwards to the given program.
func NewBridge(program Sender) *Bridge {
	return &Bridge{program: program}
}

// PublishHealth forwards a health report to the TUI.
func (b *Bridge) PublishHealth(r health.Report) {
	b.program.Send(HealthMsg{Report: r})
}

// PublishStats forwards a statistics snapshot to the TUI.
func (b *Bridge) PublishStats(s stats.Snapshot) {
	b.program.Send(StatsMsg{Snapshot: s})
}
