package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/litequery/internal/config"
)

var (
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color

	bgPrimary   lipgloss.Color
	bgSecondary lipgloss.Color

	// Styles
	StatusBarStyle     lipgloss.Style
	ModeStyle          lipgloss.Style
	EditModeStyle      lipgloss.Style
	ConnectionStyle    lipgloss.Style
	TitleStyle         lipgloss.Style
	MetaStyle          lipgloss.Style
	SelectionStyle     lipgloss.Style
	ItemStyle          lipgloss.Style
	DirStyle           lipgloss.Style
	PanelStyle         lipgloss.Style
	FocusedPanelStyle  lipgloss.Style
	CaretStyle         lipgloss.Style
	LineNumberStyle    lipgloss.Style
	SuccessStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
	ErrorBadgeStyle    lipgloss.Style
	InfoBadgeStyle     lipgloss.Style
	SpinnerStyle       lipgloss.Style
	PopupStyle         lipgloss.Style
	ErrorPopupStyle    lipgloss.Style
	PopupTitleStyle    lipgloss.Style
	PopupSectionStyle  lipgloss.Style
	HelpKeyStyle       lipgloss.Style
	HelpDescStyle      lipgloss.Style
	HelpSeparatorStyle lipgloss.Style
)

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)

	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	ModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(successColor).
		Foreground(bgPrimary)

	EditModeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(accentColor).
		Foreground(bgPrimary)

	ConnectionStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(bgSecondary).
		Foreground(textPrimary)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor)

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	SelectionStyle = lipgloss.NewStyle().
		Foreground(bgPrimary).
		Background(highlightColor).
		Bold(true)

	ItemStyle = lipgloss.NewStyle().
		Foreground(textPrimary)

	DirStyle = lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(textFaint).
		Padding(0, 1)

	FocusedPanelStyle = PanelStyle.
		BorderForeground(accentColor)

	CaretStyle = lipgloss.NewStyle().
		Reverse(true)

	LineNumberStyle = lipgloss.NewStyle().
		Foreground(textFaint)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	ErrorBadgeStyle = lipgloss.NewStyle().
		Background(errorColor).
		Foreground(textPrimary).
		Padding(0, 1)

	InfoBadgeStyle = lipgloss.NewStyle().
		Background(successColor).
		Foreground(bgPrimary).
		Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().
		Foreground(warningColor).
		Padding(0, 1)

	PopupStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(1, 2)

	ErrorPopupStyle = PopupStyle.
		BorderForeground(errorColor).
		Padding(0, 1)

	PopupTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor)

	PopupSectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(highlightColor)

	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
		Foreground(textSecondary)

	HelpSeparatorStyle = lipgloss.NewStyle().
		Foreground(textFaint)
}
