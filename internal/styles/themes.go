package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu protects currentDark and the accent list.
var themeMu sync.RWMutex

// ColorPalette holds all theme colors.
type ColorPalette struct {
	Primary   string
	Secondary string

	Success string
	Error   string

	TextPrimary   string
	TextSecondary string
	TextMuted     string

	BgPrimary   string
	BgSecondary string

	BorderNormal string
	BorderActive string

	ToastSuccessText string
	ToastErrorText   string

	// Card accents, chosen per note id.
	Accents []string
}

// LightPalette is the default theme.
var LightPalette = ColorPalette{
	Primary:          "#7C3AED",
	Secondary:        "#3B82F6",
	Success:          "#10B981",
	Error:            "#DC2626",
	TextPrimary:      "#111827",
	TextSecondary:    "#4B5563",
	TextMuted:        "#6B7280",
	BgPrimary:        "#F9FAFB",
	BgSecondary:      "#FFFFFF",
	BorderNormal:     "#D1D5DB",
	BorderActive:     "#7C3AED",
	ToastSuccessText: "#000000",
	ToastErrorText:   "#FFFFFF",
	Accents:          []string{"#7C3AED", "#2563EB", "#059669", "#D97706", "#DB2777", "#0891B2"},
}

// DarkPalette is used when the dark theme preference is set.
var DarkPalette = ColorPalette{
	Primary:          "#A78BFA",
	Secondary:        "#60A5FA",
	Success:          "#34D399",
	Error:            "#F87171",
	TextPrimary:      "#F9FAFB",
	TextSecondary:    "#D1D5DB",
	TextMuted:        "#9CA3AF",
	BgPrimary:        "#111827",
	BgSecondary:      "#1F2937",
	BorderNormal:     "#374151",
	BorderActive:     "#A78BFA",
	ToastSuccessText: "#000000",
	ToastErrorText:   "#000000",
	Accents:          []string{"#A78BFA", "#60A5FA", "#34D399", "#FBBF24", "#F472B6", "#22D3EE"},
}

var (
	currentDark bool
	accents     = readableAccents(LightPalette)
)

// Apply switches every style to the light or dark palette.
func Apply(dark bool) {
	p := LightPalette
	if dark {
		p = DarkPalette
	}
	applyPalette(p)

	themeMu.Lock()
	currentDark = dark
	accents = readableAccents(p)
	themeMu.Unlock()
}

// IsDark reports whether the dark palette is active.
func IsDark() bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentDark
}

func applyPalette(p ColorPalette) {
	Primary = lipgloss.Color(p.Primary)
	Secondary = lipgloss.Color(p.Secondary)
	Success = lipgloss.Color(p.Success)
	Error = lipgloss.Color(p.Error)
	TextPrimary = lipgloss.Color(p.TextPrimary)
	TextSecondary = lipgloss.Color(p.TextSecondary)
	TextMuted = lipgloss.Color(p.TextMuted)
	BgPrimary = lipgloss.Color(p.BgPrimary)
	BgSecondary = lipgloss.Color(p.BgSecondary)
	BorderNormal = lipgloss.Color(p.BorderNormal)
	BorderActive = lipgloss.Color(p.BorderActive)
	ToastSuccessTextColor = lipgloss.Color(p.ToastSuccessText)
	ToastErrorTextColor = lipgloss.Color(p.ToastErrorText)

	rebuildStyles()
}
