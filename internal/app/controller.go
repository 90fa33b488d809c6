package app

import (
	"context"
	"log/slog"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notepadzone/internal/notes"
)

// DeleteSecret is the fixed value a user must type to delete a note. It
// keeps casual visitors from deleting notes; it is not authentication.
const DeleteSecret = "gurunanda"

// Outcome reports what a controller operation did. The TUI shows no
// feedback for Ignored or Forbidden; callers may log it.
type Outcome int

const (
	OutcomeOK        Outcome = iota // action taken
	OutcomeIgnored                  // nothing to do (blank draft, no note)
	OutcomeForbidden                // secret mismatch
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Clipboard is the system clipboard boundary.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard writes to the OS clipboard.
var SystemClipboard Clipboard = systemClipboard{}

// Messages produced by controller commands.
type (
	// NoteCreatedMsg reports the result of a create.
	NoteCreatedMsg struct {
		Err error
	}

	// NoteRemovedMsg reports the result of a remove.
	NoteRemovedMsg struct {
		ID  string
		Err error
	}

	// CopiedMsg reports the result of a clipboard write.
	CopiedMsg struct {
		Err error
	}
)

// Controller owns the note list state: the latest snapshot, the draft,
// and the selected note. It never mutates the list on its own; the list
// changes only when a snapshot arrives.
type Controller struct {
	store  notes.Store
	clip   Clipboard
	logger *slog.Logger
	secret string

	list      []notes.Note
	draft     string
	selected  *notes.Note
	modalOpen bool
}

// NewController creates a controller writing through store.
func NewController(store notes.Store, clip Clipboard, logger *slog.Logger) *Controller {
	if clip == nil {
		clip = SystemClipboard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:  store,
		clip:   clip,
		logger: logger,
		secret: DeleteSecret,
		list:   []notes.Note{},
	}
}

// Notes returns the current list, newest first.
func (c *Controller) Notes() []notes.Note { return c.list }

// Draft returns the current draft text.
func (c *Controller) Draft() string { return c.draft }

// Selected returns the note shown in the view modal, if any.
func (c *Controller) Selected() (notes.Note, bool) {
	if c.selected == nil {
		return notes.Note{}, false
	}
	return *c.selected, true
}

// ModalOpen reports whether the view modal is visible.
func (c *Controller) ModalOpen() bool { return c.modalOpen }

// OnSnapshot replaces the list with snapshot sorted newest first. The
// selection is left alone even if its note is gone.
func (c *Controller) OnSnapshot(snapshot []notes.Note) {
	c.list = notes.SortNewestFirst(snapshot)
}

// UpdateDraft sets the draft verbatim.
func (c *Controller) UpdateDraft(text string) {
	c.draft = text
}

// SubmitDraft creates a note from the trimmed draft. A blank draft is
// ignored. Otherwise the draft is cleared right away and the returned
// command performs the write.
func (c *Controller) SubmitDraft() (Outcome, tea.Cmd) {
	text, err := notes.NormalizeText(c.draft)
	if err != nil {
		c.logger.Debug("submit draft", "outcome", OutcomeIgnored)
		return OutcomeIgnored, nil
	}
	c.draft = ""

	store := c.store
	return OutcomeOK, func() tea.Msg {
		return NoteCreatedMsg{Err: store.Create(context.Background(), text)}
	}
}

// SelectForView selects n and opens the view modal.
func (c *Controller) SelectForView(n notes.Note) {
	c.selected = &n
	c.modalOpen = true
}

// CloseView clears the selection and closes the modal.
func (c *Controller) CloseView() {
	c.selected = nil
	c.modalOpen = false
}

// Copy returns a command that puts text on the clipboard.
func (c *Controller) Copy(text string) tea.Cmd {
	clip := c.clip
	return func() tea.Msg {
		return CopiedMsg{Err: clip.WriteAll(text)}
	}
}

// RequestDelete removes the note with id if secret matches. Deleting the
// selected note closes the modal immediately, before the remove runs.
func (c *Controller) RequestDelete(id, secret string) (Outcome, tea.Cmd) {
	if secret != c.secret {
		c.logger.Info("delete note", "id", id, "outcome", OutcomeForbidden)
		return OutcomeForbidden, nil
	}

	if c.selected != nil && c.selected.ID == id {
		c.CloseView()
	}

	store := c.store
	return OutcomeOK, func() tea.Msg {
		return NoteRemovedMsg{ID: id, Err: store.Remove(context.Background(), id)}
	}
}
