// Package styles defines the visual styling for the application.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/models"
)

// Color definitions for the console theme.
var (
	// Primary colors
	Primary   = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	Secondary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#5F5FD7"}
	Subtle    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	// Status colors
	Success = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	Error   = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F87"}
	Warning = lipgloss.AdaptiveColor{Light: "#D78700", Dark: "#FFAF00"}
	Info    = lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	// Background colors
	BgDark   = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#262626"}
	BgLight  = lipgloss.AdaptiveColor{Light: "#E4E4E4", Dark: "#3A3A3A"}
	BgAccent = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#303030"}

	// Text colors
	TextPrimary   = lipgloss.AdaptiveColor{Light: "#1C1C1C", Dark: "#D0D0D0"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#4E4E4E", Dark: "#8A8A8A"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#585858"}

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// ApplyTheme forces the light or dark palette. "auto" keeps the terminal
// background detection.
func ApplyTheme(theme string) {
	switch theme {
	case models.ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	case models.ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
}

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary).
	MarginBottom(1)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(1, 2).
	MarginBottom(1)

// CompactCardStyle is CardStyle without inner padding.
var CompactCardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// FocusedStyle is used for focused input elements.
var FocusedStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// BlurredStyle is used for unfocused input elements.
var BlurredStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// FocusedBorderStyle creates a focused border.
var FocusedBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Primary).
	Padding(0, 1)

// AlertBaseStyle is the base of the inline alerts shown above tables.
var AlertBaseStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.NormalBorder(), false, false, false, true)

// AlertErrorStyle for failed requests.
var AlertErrorStyle = AlertBaseStyle.
	BorderForeground(Error).
	Foreground(Error)

// AlertWarningStyle for partial failures.
var AlertWarningStyle = AlertBaseStyle.
	BorderForeground(Warning).
	Foreground(Warning)

// AlertInfoStyle for neutral hints.
var AlertInfoStyle = AlertBaseStyle.
	BorderForeground(Info).
	Foreground(Info)

// ProgressLabelStyle styles progress bar labels.
var ProgressLabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Width(20)

// ProgressPercentStyle styles the percentage display.
var ProgressPercentStyle = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Width(6).
	Align(lipgloss.Right)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpKeyStyle styles keyboard shortcut keys.
var HelpKeyStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// HelpDescStyle styles help descriptions.
var HelpDescStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(Subtle)

// TableCellStyle styles table cells.
var TableCellStyle = lipgloss.NewStyle().
	Padding(0, 1)

// TableSelectedStyle styles selected table rows.
var TableSelectedStyle = lipgloss.NewStyle().
	Background(BgAccent).
	Foreground(TextPrimary).
	Bold(true)

// LabelStyle styles the key column of detail panels.
var LabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Width(18)

// ValueStyle styles the value column of detail panels.
var ValueStyle = lipgloss.NewStyle().
	Foreground(TextPrimary)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

// InfoTextStyle for info messages.
var InfoTextStyle = lipgloss.NewStyle().
	Foreground(Info)

// Status badge styles.
var (
	StatusActiveStyle   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	StatusInactiveStyle = lipgloss.NewStyle().Foreground(Subtle)
	StatusPendingStyle  = lipgloss.NewStyle().Foreground(Warning)
	StatusFailedStyle   = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// GetStatusStyle returns the badge style for an entity status or call state.
func GetStatusStyle(status string) lipgloss.Style {
	switch status {
	case "active", "ended", "completed", "verified", "rewarded":
		return StatusActiveStyle
	case "pending", "processing", "ringing", "ongoing", "initiated":
		return StatusPendingStyle
	case "failed", "missed", "rejected", "suspended", "banned", "expired":
		return StatusFailedStyle
	default:
		return StatusInactiveStyle
	}
}

// GetUsageStyle colors a usage ratio in percent: the fuller, the warmer.
func GetUsageStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 90:
		return ErrorTextStyle
	case percent >= 60:
		return WarningTextStyle
	default:
		return SuccessTextStyle
	}
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
