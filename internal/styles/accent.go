package styles

import (
	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/lipgloss"
)

// minAccentContrast is the WCAG ratio for large text / UI components.
const minAccentContrast = 3.0

// AccentFor returns a stable accent colour for a note id. The same id
// always maps to the same colour within a palette.
func AccentFor(id string) lipgloss.Color {
	themeMu.RLock()
	list := accents
	themeMu.RUnlock()

	if len(list) == 0 {
		return Primary
	}
	return lipgloss.Color(list[xxhash.Sum64String(id)%uint64(len(list))])
}

// Readable reports whether fg keeps at least minRatio contrast against
// every background.
func Readable(fg string, minRatio float64, bgs ...string) bool {
	f, ok := ParseHex(fg)
	if !ok {
		return false
	}
	parsed := make([]RGB, 0, len(bgs))
	for _, bg := range bgs {
		if b, ok := ParseHex(bg); ok {
			parsed = append(parsed, b)
		}
	}
	return minContrastRatio(f, parsed) >= minRatio
}

// readableAccents drops accents that would be hard to see on the
// palette's backgrounds.
func readableAccents(p ColorPalette) []string {
	out := make([]string, 0, len(p.Accents))
	for _, a := range p.Accents {
		if Readable(a, minAccentContrast, p.BgPrimary, p.BgSecondary) {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return []string{p.Primary}
	}
	return out
}
