package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notepadzone/internal/styles"
)

// SecretPrompt asks for a masked confirmation value before a destructive
// action. It only collects input; comparing the value is the caller's job.
type SecretPrompt struct {
	Title   string
	Message string
	Target  string // id of the item the prompt is about
	input   textinput.Model
}

// NewSecretPrompt returns a focused prompt for target.
func NewSecretPrompt(title, message, target string) *SecretPrompt {
	ti := textinput.New()
	ti.Placeholder = "secret"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 128
	ti.Width = 30
	ti.Prompt = "> "
	ti.Focus()

	return &SecretPrompt{
		Title:   title,
		Message: message,
		Target:  target,
		input:   ti,
	}
}

// Value returns what has been typed so far.
func (p *SecretPrompt) Value() string {
	return p.input.Value()
}

// Update forwards a message to the text input.
func (p *SecretPrompt) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// View renders the prompt box.
func (p *SecretPrompt) View(width int) string {
	boxWidth := min(max(width-8, 20), 50)

	var b strings.Builder
	b.WriteString(styles.Danger.Render(p.Title))
	b.WriteString("\n\n")
	b.WriteString(styles.Body.Width(boxWidth - 4).Render(p.Message))
	b.WriteString("\n\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")
	b.WriteString(styles.KeyHint.Render("enter confirm · esc cancel"))

	return styles.ModalBox.
		BorderForeground(styles.Error).
		Width(boxWidth).
		Render(b.String())
}
