package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#7C3AED")
	success = lipgloss.Color("#10B981")
	muted   = lipgloss.Color("#6B7280")
	text    = lipgloss.Color("#E5E7EB")
	danger  = lipgloss.Color("#EF4444")
)

var (
	monthHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1)
	weekdayStyle     = lipgloss.NewStyle().Foreground(muted).Width(5).Align(lipgloss.Center)
	dayStyle         = lipgloss.NewStyle().Width(5).Align(lipgloss.Center)
	pastDayStyle     = dayStyle.Foreground(muted).Strikethrough(true)
	selectedDayStyle = dayStyle.Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(primary)
	cursorDayStyle   = dayStyle.Underline(true).Foreground(text)

	slotStyle         = lipgloss.NewStyle().Foreground(text).PaddingLeft(2)
	selectedSlotStyle = lipgloss.NewStyle().Bold(true).Foreground(success)
	cursorMarker      = lipgloss.NewStyle().Foreground(primary).Render("▸ ")

	summaryStyle = lipgloss.NewStyle().Bold(true).Foreground(text)
	helpStyle    = lipgloss.NewStyle().Foreground(muted).Italic(true)
	statusStyle  = lipgloss.NewStyle().Foreground(danger)
	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(primary)

	buttonStyle          = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#FFFFFF")).Background(primary)
	disabledButtonStyle  = lipgloss.NewStyle().Padding(0, 2).Foreground(muted).Background(lipgloss.Color("#374151"))
	confirmedButtonStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#FFFFFF")).Background(success)

	dialogStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(success).Padding(1, 2)
	tabStyle    = lipgloss.NewStyle().Foreground(muted).Padding(0, 2)
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 2)
	frameStyle  = lipgloss.NewStyle().Padding(1, 2)
)
