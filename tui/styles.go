// ABOUTME: Lipgloss style constants for the diagram browser panels and list rows.
// ABOUTME: Kept in one place so panel code stays free of color literals.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// List rows
	CursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	CollapsedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ExpandedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	CountStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
)
