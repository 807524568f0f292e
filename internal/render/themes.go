package render

import (
	"strings"

	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names accepted in the config
const (
	StyleAuto       = styles.AutoStyle
	StyleDark       = styles.DarkStyle
	StyleLight      = styles.LightStyle
	StyleDracula    = styles.DraculaStyle
	StyleTokyoNight = styles.TokyoNightStyle
	StylePink       = styles.PinkStyle
	StyleNoTTY      = styles.NoTTYStyle
	StyleASCII      = styles.AsciiStyle
)

// styleAliases maps friendlier spellings to glamour's style names
var styleAliases = map[string]string{
	"tokyonight": StyleTokyoNight,
	"plain":      StyleNoTTY,
}

// resolveStyle maps an alias to the glamour style name; anything else,
// including a JSON style path, is returned unchanged
func resolveStyle(style string) string {
	if s, ok := styleAliases[strings.ToLower(style)]; ok {
		return s
	}
	if style == "" {
		return StyleDark
	}
	return style
}

// IsBuiltinStyle reports whether style names a bundled glamour style
func IsBuiltinStyle(style string) bool {
	style = resolveStyle(style)
	if style == StyleAuto {
		return true
	}
	_, ok := styles.DefaultStyles[style]
	return ok
}

// ThemeInfo contains information about a markdown style for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns the markdown styles offered by `estate config themes`
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleAuto, Description: "Dark or light, detected from the terminal"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the style names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
