package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/estate/internal/config"
	"github.com/diogo/estate/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewThemeSelect    // Markdown theme
	viewTUIThemeSelect // TUI color theme
)

// Menu item indices for main view
const (
	menuVerbose = iota
	menuCopyToClipboard
	menuSaveHistory
	menuTheme    // Markdown theme
	menuTUITheme // TUI color theme
	menuExit
	menuItemCount
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// SaveFunc persists a changed config
type SaveFunc func(config.Config) error

// ConfigModel represents the config TUI state
type ConfigModel struct {
	config     config.Config
	configPath string
	save       SaveFunc

	view           configView
	cursor         int
	themeCursor    int
	tuiThemeCursor int

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel creates a config menu over cfg; every change is written with save
func NewConfigModel(cfg config.Config, configPath string, save SaveFunc) ConfigModel {
	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		save:            save,
		view:            viewMain,
		themeCursor:     indexOf(render.ThemeNames(), markdownStyle(cfg)),
		tuiThemeCursor:  indexOf(render.TUIThemeNames(), cfg.TUITheme),
		feedbackTimeout: 2 * time.Second,
	}
}

func markdownStyle(cfg config.Config) string {
	if cfg.Markdown.Style == "" {
		return render.StyleDark
	}
	return cfg.Markdown.Style
}

// indexOf returns the position of name in names, or 0
func indexOf(names []string, name string) int {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return 0
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
			} else {
				return m, tea.Quit
			}

		case "up", "k":
			m.moveCursor(-1)

		case "down", "j":
			m.moveCursor(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// moveCursor moves the cursor of the active view by delta, wrapping around
func (m *ConfigModel) moveCursor(delta int) {
	wrap := func(v, n int) int {
		return ((v % n) + n) % n
	}
	switch m.view {
	case viewMain:
		m.cursor = wrap(m.cursor+delta, menuItemCount)
	case viewThemeSelect:
		m.themeCursor = wrap(m.themeCursor+delta, len(render.ThemeNames()))
	case viewTUIThemeSelect:
		m.tuiThemeCursor = wrap(m.tuiThemeCursor+delta, len(render.TUIThemeNames()))
	}
}

// persist saves the config and sets the feedback line
func (m *ConfigModel) persist(success string) tea.Cmd {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = success
	}
	return clearFeedback(m.feedbackTimeout)
}

func toggleState(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuVerbose:
			m.config.Verbose = !m.config.Verbose
			return m, m.persist("Verbose logging " + toggleState(m.config.Verbose))

		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m, m.persist("Copy to clipboard " + toggleState(m.config.CopyToClipboard))

		case menuSaveHistory:
			m.config.SaveHistory = !m.config.SaveHistory
			return m, m.persist("Save history " + toggleState(m.config.SaveHistory))

		case menuTheme:
			m.view = viewThemeSelect

		case menuTUITheme:
			m.view = viewTUIThemeSelect

		case menuExit:
			return m, tea.Quit
		}

	case viewThemeSelect:
		m.config.Markdown.Style = render.ThemeNames()[m.themeCursor]
		m.view = viewMain
		return m, m.persist("Markdown theme set to " + m.config.Markdown.Style)

	case viewTUIThemeSelect:
		selected := render.TUIThemeNames()[m.tuiThemeCursor]
		m.config.TUITheme = selected

		// Apply the new TUI theme immediately
		render.SetTUITheme(selected)
		UpdateTheme()

		m.view = viewMain
		return m, m.persist("TUI theme set to " + selected)
	}

	return m, nil
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := max(m.width-4, 40)

	header := configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ Configuration"))

	pathsContent := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Backend"),
		fmt.Sprintf("   Server:  %s", configValueStyle.Render(m.config.ServerURL)),
		fmt.Sprintf("   Config:  %s", configPathStyle.Render(m.configPath)),
	)

	var settingsContent string
	switch m.view {
	case viewMain:
		settingsContent = m.renderMainMenu()
	case viewThemeSelect:
		settingsContent = m.renderThemeSelect()
	case viewTUIThemeSelect:
		settingsContent = m.renderTUIThemeSelect()
	}

	sections := []string{
		header,
		configPanelStyle.Width(contentWidth).Render(pathsContent),
		configPanelStyle.Width(contentWidth).Render(settingsContent),
	}

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// menuLine renders one selectable row with its value column
func menuLine(selected bool, label, value string) string {
	cursor := "  "
	style := configMenuItemStyle
	if selected {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	return fmt.Sprintf("%s%s%s%s", cursor, style.Render(label), strings.Repeat(" ", max(1, 20-len(label))), value)
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	items := []string{
		configSectionTitleStyle.Render("⚙ Settings"),
		"",
		menuLine(m.cursor == menuVerbose, "Verbose Logging", m.renderBoolValue(m.config.Verbose)),
		menuLine(m.cursor == menuCopyToClipboard, "Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)),
		menuLine(m.cursor == menuSaveHistory, "Save History", m.renderBoolValue(m.config.SaveHistory)),
		menuLine(m.cursor == menuTheme, "Markdown Theme", configValueStyle.Render(markdownStyle(m.config))),
		menuLine(m.cursor == menuTUITheme, "TUI Theme", configValueStyle.Render(m.config.TUITheme)),
		"",
		menuLine(m.cursor == menuExit, "Exit", ""),
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderThemeSelect renders the markdown theme selection sub-menu
func (m ConfigModel) renderThemeSelect() string {
	items := []string{configSectionTitleStyle.Render("Select Markdown Theme"), ""}
	current := markdownStyle(m.config)

	for i, theme := range render.AvailableThemes() {
		line := menuLine(m.themeCursor == i, fmt.Sprintf("%s - %s", theme.Name, theme.Description), "")
		if theme.Name == current {
			line += configStatusOkStyle.Render(" (current)")
		}
		items = append(items, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderTUIThemeSelect renders the TUI color theme selection sub-menu
func (m ConfigModel) renderTUIThemeSelect() string {
	items := []string{configSectionTitleStyle.Render("Select TUI Theme"), ""}

	for i, theme := range render.AvailableTUIThemes() {
		line := menuLine(m.tuiThemeCursor == i, fmt.Sprintf("%s - %s", theme.Name, theme.Description), "")
		if strings.EqualFold(theme.Name, m.config.TUITheme) {
			line += configStatusOkStyle.Render(" (current)")
		}
		items = append(items, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	return renderShortcuts(configStatusBarStyle, width, []shortcut{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	})
}

// Config returns the config as edited so far
func (m ConfigModel) Config() config.Config {
	return m.config
}

// RunConfig starts the config TUI
func RunConfig(cfg config.Config, configPath string, save SaveFunc) error {
	render.SetTUITheme(cfg.TUITheme)
	UpdateTheme()

	p := tea.NewProgram(
		NewConfigModel(cfg, configPath, save),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
