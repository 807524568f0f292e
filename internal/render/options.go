// Package render turns backend data into terminal output: markdown through
// glamour, charts and cards through lipgloss.
package render

import (
	"os"

	"github.com/diogo/estate/internal/config"
)

// Options configures the markdown renderer behavior.
type Options struct {
	// Width defines the maximum output width (default: 80)
	Width int

	// Style is a glamour style name or a path to a JSON style file
	Style string

	// EnableEmoji converts :emoji: to unicode characters
	EnableEmoji bool

	// PreserveNewLines preserves original line breaks
	PreserveNewLines bool

	// TableWrap enables word wrap in table cells
	TableWrap bool

	// InlineTableLinks renders links inline in tables
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// OptionsFromConfig builds options from the markdown section of the user config.
// GLAMOUR_STYLE takes precedence over the configured style.
func OptionsFromConfig(md config.MarkdownConfig) Options {
	opts := DefaultOptions()
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	if width > 0 {
		o.Width = width
	}
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithEmoji returns Options with emoji support enabled/disabled.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}
