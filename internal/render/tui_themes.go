package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the TUI and the dashboard charts
type TUITheme struct {
	Name        string
	Description string

	// MarkdownStyle is the glamour style paired with this theme
	MarkdownStyle string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color

	// Recommendation and chart colors
	Buy   lipgloss.Color
	Rent  lipgloss.Color
	Price lipgloss.Color
}

// Built-in TUI themes
var (
	// TokyoNightTheme is the default dark theme based on Tokyo Night color scheme
	TokyoNightTheme = TUITheme{
		Name:          "tokyonight",
		Description:   "Tokyo Night - Dark theme with blue accents",
		MarkdownStyle: StyleTokyoNight,

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),

		Buy:   lipgloss.Color("#9ece6a"),
		Rent:  lipgloss.Color("#f7768e"),
		Price: lipgloss.Color("#7aa2f7"),
	}

	// ClassicTheme keeps the web dashboard's flat palette
	ClassicTheme = TUITheme{
		Name:          "classic",
		Description:   "Classic - The web dashboard's green, red and blue",
		MarkdownStyle: StyleDark,

		Background: lipgloss.Color("#2c3e50"),
		Surface:    lipgloss.Color("#34495e"),
		Border:     lipgloss.Color("#7f8c8d"),

		Primary:   lipgloss.Color("#3498db"),
		Secondary: lipgloss.Color("#2ecc71"),
		Accent:    lipgloss.Color("#9b59b6"),
		Warning:   lipgloss.Color("#f39c12"),
		Error:     lipgloss.Color("#e74c3c"),

		Text:     lipgloss.Color("#ecf0f1"),
		TextDim:  lipgloss.Color("#95a5a6"),
		TextMute: lipgloss.Color("#7f8c8d"),

		Buy:   lipgloss.Color("#2ecc71"),
		Rent:  lipgloss.Color("#e74c3c"),
		Price: lipgloss.Color("#3498db"),
	}

	// NordTheme is based on the Nord color palette
	NordTheme = TUITheme{
		Name:          "nord",
		Description:   "Nord - Arctic-inspired theme with cool tones",
		MarkdownStyle: StyleDark,

		Background: lipgloss.Color("#2e3440"),
		Surface:    lipgloss.Color("#3b4252"),
		Border:     lipgloss.Color("#4c566a"),

		Primary:   lipgloss.Color("#88c0d0"), // Frost
		Secondary: lipgloss.Color("#a3be8c"), // Aurora green
		Accent:    lipgloss.Color("#b48ead"), // Aurora purple
		Warning:   lipgloss.Color("#ebcb8b"), // Aurora yellow
		Error:     lipgloss.Color("#bf616a"), // Aurora red

		Text:     lipgloss.Color("#eceff4"),
		TextDim:  lipgloss.Color("#7b88a1"),
		TextMute: lipgloss.Color("#4c566a"),

		Buy:   lipgloss.Color("#a3be8c"),
		Rent:  lipgloss.Color("#bf616a"),
		Price: lipgloss.Color("#88c0d0"),
	}

	// DraculaTheme is based on the Dracula color palette
	DraculaTheme = TUITheme{
		Name:          "dracula",
		Description:   "Dracula - Dark theme with vibrant colors",
		MarkdownStyle: StyleDracula,

		Background: lipgloss.Color("#282a36"),
		Surface:    lipgloss.Color("#44475a"),
		Border:     lipgloss.Color("#6272a4"),

		Primary:   lipgloss.Color("#8be9fd"), // Cyan
		Secondary: lipgloss.Color("#50fa7b"), // Green
		Accent:    lipgloss.Color("#ff79c6"), // Pink
		Warning:   lipgloss.Color("#f1fa8c"), // Yellow
		Error:     lipgloss.Color("#ff5555"), // Red

		Text:     lipgloss.Color("#f8f8f2"),
		TextDim:  lipgloss.Color("#6272a4"),
		TextMute: lipgloss.Color("#44475a"),

		Buy:   lipgloss.Color("#50fa7b"),
		Rent:  lipgloss.Color("#ff5555"),
		Price: lipgloss.Color("#8be9fd"),
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = TokyoNightTheme
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name, ignoring case
func GetTUIThemeByName(name string) (TUITheme, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		TokyoNightTheme,
		ClassicTheme,
		NordTheme,
		DraculaTheme,
	}
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
