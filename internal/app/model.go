// Package app is the Bubble Tea front end: the note list controller and
// the model that renders it.
package app

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/notepadzone/internal/keymap"
	"github.com/marcus/notepadzone/internal/notes"
	"github.com/marcus/notepadzone/internal/styles"
	"github.com/marcus/notepadzone/internal/ui"
)

// ThemeStore persists the light/dark preference.
type ThemeStore interface {
	Dark() bool
	SetDark(dark bool) error
}

// focusArea is the pane receiving keys when no modal is open.
type focusArea int

const (
	focusDraft focusArea = iota
	focusList
)

// Options configures a Model.
type Options struct {
	Store         notes.Store
	Bridge        *SnapshotBridge
	Theme         ThemeStore
	Clipboard     Clipboard
	Logger        *slog.Logger
	TruncateLimit int
	TimeLayout    string
	Version       string
}

// Model is the root Bubble Tea model.
type Model struct {
	ctrl   *Controller
	bridge *SnapshotBridge
	theme  ThemeStore
	keys   *keymap.Registry
	help   help.Model
	logger *slog.Logger

	draft  textarea.Model
	focus  focusArea
	cursor int
	prompt *ui.SecretPrompt

	truncateLimit int
	timeLayout    string
	version       string

	width, height int
	ready         bool

	// Status/toast messages
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool
}

// New creates the model and applies the persisted theme.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.TruncateLimit
	if limit <= 0 {
		limit = notes.DefaultTruncateLimit
	}
	layout := opts.TimeLayout
	if layout == "" {
		layout = notes.DefaultTimeLayout
	}
	bridge := opts.Bridge
	if bridge == nil {
		bridge = NewSnapshotBridge()
	}

	if opts.Theme != nil {
		styles.Apply(opts.Theme.Dark())
	}

	m := Model{
		ctrl:          NewController(opts.Store, opts.Clipboard, logger),
		bridge:        bridge,
		theme:         opts.Theme,
		keys:          keymap.Default(),
		help:          help.New(),
		logger:        logger,
		focus:         focusDraft,
		truncateLimit: limit,
		timeLayout:    layout,
		version:       opts.Version,
	}
	m.draft = newDraftInput()
	m.applyThemeStyles()
	return m
}

func newDraftInput() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Drop your thoughts here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Prompt = ""
	ta.SetHeight(3)
	// ctrl+t toggles the theme from the editor.
	ta.KeyMap.TransposeCharacterBackward = key.NewBinding(key.WithDisabled())
	ta.Focus()
	return ta
}

// applyThemeStyles restyles components that cache colours.
func (m *Model) applyThemeStyles() {
	s := textarea.Style{
		Base:        lipgloss.NewStyle(),
		CursorLine:  lipgloss.NewStyle(),
		EndOfBuffer: styles.Muted,
		Placeholder: styles.Muted,
		Prompt:      lipgloss.NewStyle(),
		Text:        styles.Body,
	}
	m.draft.FocusedStyle = s
	m.draft.BlurredStyle = s

	m.help.Styles.ShortKey = styles.KeyHint.Bold(true)
	m.help.Styles.ShortDesc = styles.KeyHint
	m.help.Styles.ShortSeparator = styles.Muted
}

// Init starts listening for snapshots.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bridge.Wait(), textarea.Blink)
}

// Controller exposes the note list controller.
func (m Model) Controller() *Controller { return m.ctrl }

// context returns the keymap context for the current UI state.
func (m Model) context() string {
	switch {
	case m.prompt != nil:
		return keymap.ContextPrompt
	case m.ctrl.ModalOpen():
		return keymap.ContextView
	case m.focus == focusDraft:
		return keymap.ContextDraft
	default:
		return keymap.ContextList
	}
}

// cursorNote returns the note under the list cursor.
func (m Model) cursorNote() (notes.Note, bool) {
	list := m.ctrl.Notes()
	if m.cursor < 0 || m.cursor >= len(list) {
		return notes.Note{}, false
	}
	return list[m.cursor], true
}

// columns returns how many cards fit per row.
func (m Model) columns() int {
	switch {
	case m.width >= 110:
		return 3
	case m.width >= 70:
		return 2
	default:
		return 1
	}
}

// clampCursor keeps the cursor on an existing card.
func (m *Model) clampCursor() {
	n := len(m.ctrl.Notes())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusDraft {
		m.draft.Focus()
	} else {
		m.draft.Blur()
	}
}

// ShowToast displays a temporary status message.
func (m *Model) ShowToast(message string, d time.Duration, isError bool) tea.Cmd {
	m.statusMsg = message
	m.statusExpiry = time.Now().Add(d)
	m.statusIsError = isError
	return tea.Tick(d, func(t time.Time) tea.Msg { return toastExpiredMsg(t) })
}

// ClearToast clears an expired toast.
func (m *Model) ClearToast() {
	if m.statusMsg != "" && !time.Now().Before(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

type toastExpiredMsg time.Time
