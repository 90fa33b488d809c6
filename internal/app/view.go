package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/notepadzone/internal/notes"
	"github.com/marcus/notepadzone/internal/styles"
	"github.com/marcus/notepadzone/internal/ui"
)

const (
	appName = "NotePadZone"

	emptyListText = "No notes yet. Add your first note above!"

	cardTextLines = 4
	// text lines + timestamp + top/bottom border
	cardHeight = cardTextLines + 1 + 2
)

// View renders the model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	sections := []string{
		m.renderHeader(),
		m.renderDraft(),
	}
	used := lipgloss.Height(strings.Join(sections, "\n")) + 2 // list title + footer
	sections = append(sections, m.renderList(m.height-used), m.renderFooter())

	base := lipgloss.NewStyle().
		MaxHeight(m.height).
		Render(strings.Join(sections, "\n"))

	switch {
	case m.prompt != nil:
		return ui.Overlay(base, m.prompt.View(m.width), m.width, m.height)
	case m.ctrl.ModalOpen():
		return ui.Overlay(base, m.renderNoteModal(), m.width, m.height)
	}
	return base
}

func (m Model) renderHeader() string {
	theme := "☀ light"
	if styles.IsDark() {
		theme = "☾ dark"
	}
	left := styles.Logo.Render(appName)
	if m.version != "" {
		left += " " + styles.Muted.Render(m.version)
	}
	right := styles.Muted.Render(theme)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderDraft() string {
	panel := styles.PanelInactive
	if m.focus == focusDraft && m.prompt == nil && !m.ctrl.ModalOpen() {
		panel = styles.PanelActive
	}
	return panel.Width(max(m.width-2, 10)).Render(m.draft.View())
}

// renderList draws the card grid in at most height lines. Rows scroll
// only as far as needed to keep the cursor visible.
func (m Model) renderList(height int) string {
	list := m.ctrl.Notes()
	title := styles.Title.Render(fmt.Sprintf("Your Notes (%d)", len(list)))

	if len(list) == 0 {
		return title + "\n" + styles.Muted.Render(emptyListText)
	}

	cols := m.columns()
	cardWidth := max(m.width/cols-1, 12)
	visibleRows := max((height-1)/cardHeight, 1)

	scroll := max(m.cursor/cols-visibleRows+1, 0)

	var rows []string
	for start := scroll * cols; start < len(list) && len(rows) < visibleRows; start += cols {
		end := min(start+cols, len(list))
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCard(list[i], cardWidth, i == m.cursor && m.focus == focusList))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	return title + "\n" + strings.Join(rows, "\n")
}

func (m Model) renderCard(n notes.Note, width int, selected bool) string {
	style := styles.Card.BorderForeground(styles.AccentFor(n.ID))
	if selected {
		style = styles.CardSelected
	}
	inner := max(width-4, 4) // border + padding

	lines := fitLines(notes.Truncate(n.Text, m.truncateLimit), inner, cardTextLines)
	for len(lines) < cardTextLines {
		lines = append(lines, "")
	}
	body := styles.Body.Render(strings.Join(lines, "\n"))
	stamp := styles.Timestamp.Render(notes.FormatTimestamp(n.CreatedAt, m.timeLayout))

	return style.Width(width - 2).Render(body + "\n" + stamp)
}

func (m Model) renderNoteModal() string {
	n, ok := m.ctrl.Selected()
	if !ok {
		return ""
	}
	width := min(max(m.width-8, 20), 70)

	var b strings.Builder
	b.WriteString(styles.Title.Render("Note"))
	b.WriteString("\n")
	b.WriteString(styles.Timestamp.Render(notes.FormatTimestamp(n.CreatedAt, m.timeLayout)))
	b.WriteString("\n\n")
	b.WriteString(styles.Body.Width(width - 6).Render(n.Text))
	b.WriteString("\n\n")
	b.WriteString(styles.KeyHint.Render("c copy · d delete · esc close"))

	return styles.ModalBox.Width(width).Render(b.String())
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		if m.statusIsError {
			return styles.ToastError.Render(m.statusMsg)
		}
		return styles.ToastSuccess.Render(m.statusMsg)
	}
	return m.help.ShortHelpView(m.keys.Help(m.context()))
}

// fitLines hard-wraps text to width display columns and keeps at most
// maxLines lines, marking a cut with an ellipsis.
func fitLines(text string, width, maxLines int) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		if para == "" {
			out = append(out, "")
			continue
		}
		var line strings.Builder
		lineWidth := 0
		for _, r := range para {
			rw := runewidth.RuneWidth(r)
			if lineWidth+rw > width {
				out = append(out, line.String())
				line.Reset()
				lineWidth = 0
			}
			line.WriteRune(r)
			lineWidth += rw
		}
		out = append(out, line.String())
	}

	if len(out) > maxLines {
		out = out[:maxLines]
		out[maxLines-1] = runewidth.Truncate(out[maxLines-1]+" …", width, "…")
	}
	return out
}
