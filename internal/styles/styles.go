package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - default light theme. Apply swaps these in place.
var (
	// Brand colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#3B82F6") // Blue

	// Status colors
	Success = lipgloss.Color("#10B981") // Green
	Error   = lipgloss.Color("#EF4444") // Red

	// Text colors
	TextPrimary   = lipgloss.Color("#111827")
	TextSecondary = lipgloss.Color("#4B5563")
	TextMuted     = lipgloss.Color("#6B7280")

	// Background colors
	BgPrimary   = lipgloss.Color("#F9FAFB")
	BgSecondary = lipgloss.Color("#FFFFFF")

	// Border colors
	BorderNormal = lipgloss.Color("#D1D5DB")
	BorderActive = lipgloss.Color("#7C3AED")

	ToastSuccessTextColor = lipgloss.Color("#000000")
	ToastErrorTextColor   = lipgloss.Color("#FFFFFF")
)

// Panel styles
var (
	PanelActive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderActive).
			Padding(0, 1)

	PanelInactive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderNormal).
			Padding(0, 1)

	// Note card in the grid
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	// Note card under the cursor
	CardSelected = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(BorderActive).
			Padding(0, 1)

	ModalBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Background(BgSecondary).
			Padding(1, 2)
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Logo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Body = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Timestamp = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Italic(true)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	Danger = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Toast styles
var (
	ToastSuccess = lipgloss.NewStyle().
			Foreground(ToastSuccessTextColor).
			Background(Success).
			Padding(0, 1)

	ToastError = lipgloss.NewStyle().
			Foreground(ToastErrorTextColor).
			Background(Error).
			Padding(0, 1)
)

// rebuildStyles recreates every style from the current colour variables.
func rebuildStyles() {
	PanelActive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)

	PanelInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	CardSelected = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(BorderActive).
		Padding(0, 1)

	ModalBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Background(BgSecondary).
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Logo = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Body = lipgloss.NewStyle().
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Timestamp = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	Danger = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	ToastSuccess = lipgloss.NewStyle().
		Foreground(ToastSuccessTextColor).
		Background(Success).
		Padding(0, 1)

	ToastError = lipgloss.NewStyle().
		Foreground(ToastErrorTextColor).
		Background(Error).
		Padding(0, 1)
}
