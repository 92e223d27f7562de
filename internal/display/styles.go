package display

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#27272a")).
			Foreground(lipgloss.Color("#bae6fd")).
			Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#a1a1aa"))
	sepStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#3f3f46"))
	primaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#d4d4d8"))
	secondaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#71717a"))
	disabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52525b"))
	focusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f4f4f5")).Bold(true)
	focusMarker    = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#bbf7d0"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#bbf7d0"))
	urgentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fca5a5")).Bold(true)
	readinessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bae6fd")).Bold(true)

	// BannerStyle colours the banner art.
	BannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#bae6fd"))
)
