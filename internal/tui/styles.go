// Package tui provides the terminal user interfaces of estate: the chat
// screen, the property browser and the settings menu.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/estate/internal/errors"
	"github.com/diogo/estate/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color

	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color

	colorBuy  lipgloss.Color
	colorRent lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	// Chat
	messagesAreaStyle    lipgloss.Style
	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style
	sourceStyle          lipgloss.Style
	inputPanelStyle      lipgloss.Style
	inputLabelStyle      lipgloss.Style
	loadingStyle         lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	errorStyle lipgloss.Style

	// Property browser
	tableHeaderStyle lipgloss.Style
	tableCellStyle   lipgloss.Style
	buyBadgeStyle    lipgloss.Style
	rentBadgeStyle   lipgloss.Style
	pagerActiveStyle lipgloss.Style
	pagerMutedStyle  lipgloss.Style

	// Config menu
	configHeaderStyle       lipgloss.Style
	configTitleStyle        lipgloss.Style
	configPanelStyle        lipgloss.Style
	configSectionTitleStyle lipgloss.Style
	configMenuItemStyle     lipgloss.Style
	configMenuSelectedStyle lipgloss.Style
	configCursorStyle       lipgloss.Style
	configValueStyle        lipgloss.Style
	configEnabledStyle      lipgloss.Style
	configDisabledStyle     lipgloss.Style
	configPathStyle         lipgloss.Style
	configStatusOkStyle     lipgloss.Style
	configFeedbackStyle     lipgloss.Style
	configStatusBarStyle    lipgloss.Style
)

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute
	colorBuy = theme.Buy
	colorRent = theme.Rent

	rebuildStyles()
}

// rebuildStyles creates all lipgloss styles with current color values
func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	sourceStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		MarginTop(1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		MarginTop(1)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	tableHeaderStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		PaddingRight(2)

	tableCellStyle = lipgloss.NewStyle().
		Foreground(colorText).
		PaddingRight(2)

	buyBadgeStyle = lipgloss.NewStyle().
		Foreground(colorBuy).
		Bold(true)

	rentBadgeStyle = lipgloss.NewStyle().
		Foreground(colorRent).
		Bold(true)

	pagerActiveStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	pagerMutedStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	configHeaderStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginBottom(1).
		Align(lipgloss.Center)

	configTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		PaddingLeft(1)

	configPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2)

	configSectionTitleStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	configMenuItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	configMenuSelectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	configCursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent)

	configValueStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	configEnabledStyle = lipgloss.NewStyle().
		Foreground(colorBuy)

	configDisabledStyle = lipgloss.NewStyle().
		Foreground(colorRent)

	configPathStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	configStatusOkStyle = lipgloss.NewStyle().
		Foreground(colorBuy)

	configFeedbackStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true).
		MarginTop(1)

	configStatusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		MarginTop(1).
		Align(lipgloss.Center)
}

// shortcut is one key hint of a status bar
type shortcut struct {
	key  string
	desc string
}

// renderShortcuts joins key hints into a centered status bar
func renderShortcuts(style lipgloss.Style, width int, shortcuts []shortcut) string {
	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return style.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// FormatError returns a styled error message with additional context taken
// from the typed errors of the api client.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case errors.IsConnectionError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Is the backend running? Try 'estate mock-server' for a local one"))
	case errors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise request_timeout"))
	case errors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The server answered with something that is not the expected JSON"))
	}

	return sb.String()
}
