package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the dashboard
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success, checkmarks
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, X marks
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings, unsaved markers
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60 // Minimum supported terminal width
	SidebarWidth     = 24 // Fixed sidebar column width
	DefaultPadding   = 2  // Default padding inside boxes
)

var (
	// TitleStyle renders the active section's title bar
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			PaddingLeft(1)

	// SidebarStyle frames the side navigation column
	SidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(MutedColor).
			Width(SidebarWidth).
			PaddingLeft(1)

	// SidebarItemStyle is an unselected sidebar entry
	SidebarItemStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	// SidebarActiveStyle highlights the sidebar entry for the active section
	SidebarActiveStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	// ContentStyle frames the main section content
	ContentStyle = lipgloss.NewStyle().
			Padding(0, DefaultPadding)

	// StatusErrorStyle renders inline failure text ("Connection failed")
	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// StatusOKStyle renders inline success text
	StatusOKStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// DirtyMarkerStyle flags sections holding unsaved changes
	DirtyMarkerStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	// ModalStyle frames the blocking unsaved-changes prompt
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(WarningColor).
			Padding(1, 2)

	// ModalButtonStyle is an unselected modal button
	ModalButtonStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Padding(0, 1)

	// ModalButtonActiveStyle is the focused modal button
	ModalButtonActiveStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(PrimaryColor).
				Padding(0, 1)

	// HelpStyle renders the bottom help line
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)

	// CardTitleStyle renders a search result's title line
	CardTitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// CardMetaStyle renders a search result's secondary line
	CardMetaStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// ButtonEnabledStyle renders an actionable request button
	ButtonEnabledStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(PrimaryColor).
				Padding(0, 1)

	// ButtonDisabledStyle renders an inert request button
	ButtonDisabledStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Padding(0, 1)
)

// GetTerminalWidth returns the current terminal width, falling back to
// the minimum when it cannot be determined.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return MinTerminalWidth
	}
	return width
}
