package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notepadzone/internal/keymap"
	"github.com/marcus/notepadzone/internal/msg"
	"github.com/marcus/notepadzone/internal/notes"
	"github.com/marcus/notepadzone/internal/styles"
	"github.com/marcus/notepadzone/internal/ui"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.draft.SetWidth(max(message.Width-6, 10))
		m.help.Width = message.Width
		return m, nil

	case msg.SnapshotMsg:
		current, hadCursor := m.cursorNote()
		m.ctrl.OnSnapshot(message.Notes)
		if hadCursor {
			// Follow the highlighted card if it is still there.
			if i := notes.IndexOf(m.ctrl.Notes(), current.ID); i >= 0 {
				m.cursor = i
			}
		}
		m.clampCursor()
		m.logger.Debug("snapshot received", "count", len(message.Notes))
		return m, m.bridge.Wait()

	case NoteCreatedMsg:
		if message.Err != nil {
			m.logger.Error("create note failed", "error", message.Err)
		}
		return m, nil

	case NoteRemovedMsg:
		if message.Err != nil {
			m.logger.Error("remove note failed", "id", message.ID, "error", message.Err)
		}
		return m, nil

	case CopiedMsg:
		if message.Err != nil {
			m.logger.Error("copy to clipboard failed", "error", message.Err)
			return m, nil
		}
		return m, msg.ShowToast("Copied to clipboard", 2*time.Second)

	case msg.ToastMsg:
		return m, m.ShowToast(message.Message, message.Duration, message.IsError)

	case toastExpiredMsg:
		m.ClearToast()
		return m, nil
	}

	// Cursor blink and other textarea internals.
	if m.focus == focusDraft && m.prompt == nil && !m.ctrl.ModalOpen() {
		var cmd tea.Cmd
		m.draft, cmd = m.draft.Update(message)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg routes a key press by the active context.
func (m Model) handleKeyMsg(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.context()
	command := m.keys.Command(ctx, k.String())

	if command == "quit" {
		return m, tea.Quit
	}
	if command == "toggle-theme" {
		m.toggleTheme()
		return m, nil
	}

	switch ctx {
	case keymap.ContextPrompt:
		return m.handlePromptKey(k, command)
	case keymap.ContextView:
		return m.handleViewKey(command)
	case keymap.ContextDraft:
		return m.handleDraftKey(k, command)
	default:
		return m.handleListKey(command)
	}
}

func (m Model) handlePromptKey(k tea.KeyMsg, command string) (tea.Model, tea.Cmd) {
	switch command {
	case "cancel":
		m.prompt = nil
		return m, nil

	case "confirm":
		id, secret := m.prompt.Target, m.prompt.Value()
		m.prompt = nil
		outcome, cmd := m.ctrl.RequestDelete(id, secret)
		m.logger.Debug("delete requested", "id", id, "outcome", outcome)
		return m, cmd
	}

	return m, m.prompt.Update(k)
}

func (m Model) handleViewKey(command string) (tea.Model, tea.Cmd) {
	selected, ok := m.ctrl.Selected()

	switch command {
	case "close":
		m.ctrl.CloseView()
	case "copy":
		if ok {
			return m, m.ctrl.Copy(selected.Text)
		}
	case "delete":
		if ok {
			m.openDeletePrompt(selected.ID)
		}
	}
	return m, nil
}

func (m Model) handleDraftKey(k tea.KeyMsg, command string) (tea.Model, tea.Cmd) {
	switch command {
	case "submit":
		m.ctrl.UpdateDraft(m.draft.Value())
		outcome, cmd := m.ctrl.SubmitDraft()
		if outcome == OutcomeOK {
			m.draft.Reset()
		}
		return m, cmd

	case "switch-focus":
		m.setFocus(focusList)
		return m, nil
	}

	var cmd tea.Cmd
	m.draft, cmd = m.draft.Update(k)
	m.ctrl.UpdateDraft(m.draft.Value())
	return m, cmd
}

func (m Model) handleListKey(command string) (tea.Model, tea.Cmd) {
	n := len(m.ctrl.Notes())
	cols := m.columns()

	switch command {
	case "switch-focus":
		m.setFocus(focusDraft)

	case "cursor-up":
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case "cursor-down":
		if m.cursor+cols < n {
			m.cursor += cols
		}
	case "cursor-left":
		if m.cursor > 0 {
			m.cursor--
		}
	case "cursor-right":
		if m.cursor < n-1 {
			m.cursor++
		}

	case "view":
		if note, ok := m.cursorNote(); ok {
			m.ctrl.SelectForView(note)
		}
	case "copy":
		if note, ok := m.cursorNote(); ok {
			return m, m.ctrl.Copy(note.Text)
		}
	case "delete":
		if note, ok := m.cursorNote(); ok {
			m.openDeletePrompt(note.ID)
		}
	}
	return m, nil
}

func (m *Model) openDeletePrompt(id string) {
	m.prompt = ui.NewSecretPrompt(
		"Delete note",
		"Enter the secret to delete this note. This cannot be undone.",
		id,
	)
}

// toggleTheme flips and persists the theme. A failed save still switches
// the theme for this session.
func (m *Model) toggleTheme() {
	dark := !styles.IsDark()
	if m.theme != nil {
		if err := m.theme.SetDark(dark); err != nil {
			m.logger.Error("save theme failed", "error", err)
		}
	}
	styles.Apply(dark)
	m.applyThemeStyles()
}
