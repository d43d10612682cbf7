package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles of the menus and the level picker.
type Theme struct {
	// Menu styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
	MenuFooter      lipgloss.Style

	// Level picker styles
	LevelCleared lipgloss.Style
	LevelGoal    lipgloss.Style
	LevelHint    lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		MenuFooter:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		LevelCleared: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		LevelGoal:    lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
		LevelHint:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
}

// MonochromeTheme returns a theme without colours, for dumb terminals.
func MonochromeTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		MenuTitle:       plain.Bold(true),
		MenuItemNormal:  plain,
		MenuItemActive:  plain.Reverse(true),
		MenuDescription: plain,
		MenuFooter:      plain,
		LevelCleared:    plain,
		LevelGoal:       plain,
		LevelHint:       plain,
	}
}

var theme = DefaultTheme()

// SetTheme sets the global theme.
func SetTheme(t Theme) {
	theme = t
}
