// Package ui provides shared UI components and helpers for the TUI.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/notepadzone/internal/styles"
)

// dimStyle greys out the screen behind a modal. Existing ANSI codes are
// stripped first since faint SGR doesn't combine reliably with colours.
func dimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.TextMuted)
}

// widest returns the maximum visual width of lines.
func widest(lines []string) int {
	w := 0
	for _, line := range lines {
		if lw := ansi.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w
}

// dim strips ANSI codes from s and renders it muted.
func dim(s string) string {
	plain := ansi.Strip(s)
	if plain == "" {
		return ""
	}
	return dimStyle().Render(plain)
}

// splice places boxLine over bgLine starting at column x. The background
// on either side is dimmed.
func splice(bgLine, boxLine string, x, boxWidth int) string {
	var b strings.Builder

	plain := ansi.Strip(bgLine)
	plainWidth := ansi.StringWidth(plain)

	if x > 0 {
		left := ansi.Truncate(plain, x, "")
		b.WriteString(dim(left))
		if lw := ansi.StringWidth(left); lw < x {
			b.WriteString(strings.Repeat(" ", x-lw))
		}
	}

	b.WriteString(boxLine)

	if right := x + boxWidth; plainWidth > right {
		b.WriteString(dim(ansi.Cut(plain, right, plainWidth)))
	}

	return b.String()
}

// Overlay centres box over a dimmed copy of background, returning exactly
// height lines.
func Overlay(background, box string, width, height int) string {
	bg := strings.Split(background, "\n")
	boxLines := strings.Split(box, "\n")

	boxWidth := widest(boxLines)
	x := max((width-boxWidth)/2, 0)
	y := max((height-len(boxLines))/2, 0)

	out := make([]string, height)
	for row := 0; row < height; row++ {
		line := ""
		if row < len(bg) {
			line = bg[row]
		}
		if i := row - y; i >= 0 && i < len(boxLines) {
			out[row] = splice(line, boxLines[i], x, boxWidth)
			continue
		}
		out[row] = dim(line)
	}
	return strings.Join(out, "\n")
}
