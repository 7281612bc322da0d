package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#06B6D4") // Cyan
	Error     = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Fg        = lipgloss.Color("#F9FAFB") // Light gray
	Border    = lipgloss.Color("#374151") // Gray border

	// Reader chrome
	Header = lipgloss.NewStyle().
		Foreground(Fg).
		Background(Primary).
		Padding(0, 1).
		Bold(true)

	Progress = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	Content = lipgloss.NewStyle().
		Padding(0, 2)

	FooterBar = lipgloss.NewStyle().
			Padding(0, 1)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted)

	HelpKey = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Transient alert notices
	Alert = lipgloss.NewStyle().
		Foreground(Error).
		Padding(0, 1)

	// Overlay windows
	Dialog = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	DialogTitle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	ListItem = lipgloss.NewStyle().
			Foreground(Fg)

	ListItemSelected = lipgloss.NewStyle().
				Foreground(Secondary).
				Bold(true)
)

// TruncateText shortens s to max runes, appending an ellipsis when it was
// cut.
func TruncateText(s string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
