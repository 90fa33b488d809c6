// Package msg holds Bubble Tea messages shared between packages.
package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notepadzone/internal/notes"
)

// SnapshotMsg carries a full-collection snapshot from the store into the
// update loop.
type SnapshotMsg struct {
	Notes []notes.Note
}

// ToastMsg displays a temporary message.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool // true for error toasts (red), false for success (green)
}

// ShowToast returns a command to show a toast message.
func ShowToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{
			Message:  message,
			Duration: duration,
		}
	}
}
