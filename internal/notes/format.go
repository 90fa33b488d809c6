package notes

import "time"

const (
	// DefaultTruncateLimit is the number of characters shown on a note card.
	DefaultTruncateLimit = 100
	// Ellipsis marks truncated text.
	Ellipsis = "..."
	// DefaultTimeLayout renders a date followed by hour and minute.
	DefaultTimeLayout = "01/02/2006 03:04 PM"
)

// Truncate returns text unchanged if it has at most limit characters,
// otherwise its first limit characters followed by Ellipsis.
func Truncate(text string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + Ellipsis
}

// FormatTimestamp renders t in local time using layout.
// An empty layout falls back to DefaultTimeLayout.
func FormatTimestamp(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return t.Local().Format(layout)
}
