package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notepadzone/internal/msg"
	"github.com/marcus/notepadzone/internal/notes"
)

// SnapshotBridge moves store snapshots from subscriber goroutines into the
// Bubble Tea loop. It holds at most one pending snapshot; a newer one
// replaces an unread older one.
type SnapshotBridge struct {
	ch   chan []notes.Note
	done chan struct{}
	once sync.Once
}

// NewSnapshotBridge creates an empty bridge.
func NewSnapshotBridge() *SnapshotBridge {
	return &SnapshotBridge{
		ch:   make(chan []notes.Note, 1),
		done: make(chan struct{}),
	}
}

// Push offers a snapshot. It is the store subscription callback.
func (b *SnapshotBridge) Push(snapshot []notes.Note) {
	for {
		select {
		case <-b.done:
			return
		case b.ch <- snapshot:
			return
		default:
		}
		// Drop the stale snapshot and retry.
		select {
		case <-b.ch:
		default:
		}
	}
}

// Wait returns a command that blocks until the next snapshot. The model
// re-arms it after every SnapshotMsg.
func (b *SnapshotBridge) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case snapshot := <-b.ch:
			return msg.SnapshotMsg{Notes: snapshot}
		case <-b.done:
			return nil
		}
	}
}

// Close releases any pending Wait.
func (b *SnapshotBridge) Close() {
	b.once.Do(func() { close(b.done) })
}
