package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Markdown renders markdown content for terminal display.
// Uses a pooled renderer; glamour renderers are not safe for concurrent use.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := renderers.acquire(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, renderer)

	return renderer.Render(content)
}

// MarkdownWithWidth renders with default options and the given width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// MarkdownOrPlain renders markdown and falls back to the raw text when the
// renderer cannot be built (an unreadable style file, for example).
func MarkdownOrPlain(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return strings.TrimRight(content, "\n") + "\n"
	}
	return out
}

// PlainText lays out chat text verbatim: escape sequences are stripped, line
// breaks are kept and long lines wrap at width. Markup characters such as
// <tag>, # or ** are shown as typed.
func PlainText(text string, width int) string {
	text = strings.TrimRight(ansi.Strip(text), "\n")
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
