package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/diogo/estate/internal/config"
	apierrors "github.com/diogo/estate/internal/errors"
	"github.com/diogo/estate/internal/history"
	"github.com/diogo/estate/internal/models"
	"github.com/diogo/estate/internal/relay"
	"github.com/diogo/estate/internal/render"
)

// errAnswerFailed is returned when the answer shown is a transport failure notice.
// The notice has already been printed.
var errAnswerFailed = errors.New("no answer from the backend")

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarning  = lipgloss.Color("#f7768e")
	colorPrimary  = lipgloss.Color("#7aa2f7")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	sourceStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Italic(true)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
)

// failureSources are the tags of answers that never reached the backend's logic
var failureSources = map[string]bool{
	models.SourceTimeout:         true,
	models.SourceConnectionError: true,
	models.SourceNetworkError:    true,
	models.SourceParseError:      true,
	models.SourceCancelled:       true,
}

// spinner is the animated loading indicator. As a relay send control it runs
// while the send control is disabled.
type spinner struct {
	out     io.Writer
	message string

	mu      sync.Mutex
	frame   int
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// newSpinner creates a new animated spinner
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{out: out, message: message}
}

// SetEnabled starts the animation when disabled and clears it when enabled again
func (s *spinner) SetEnabled(enabled bool) {
	if enabled {
		s.halt()
		return
	}
	s.start()
}

// start begins the animation
func (s *spinner) start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// halt stops the animation and waits for the line to be cleared
func (s *spinner) halt() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// consoleSink keeps the answer of a one-shot question and saves both turns
type consoleSink struct {
	recorder *history.Recorder

	mu     sync.Mutex
	answer *models.Turn
}

func (s *consoleSink) AppendTurn(turn models.Turn) {
	turn.Text = ansi.Strip(turn.Text)
	s.recorder.Record(turn)

	if turn.IsUser() {
		return
	}
	s.mu.Lock()
	s.answer = &turn
	s.mu.Unlock()
}

func (s *consoleSink) Answer() (models.Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.answer == nil {
		return models.Turn{}, false
	}
	return *s.answer, true
}

// runAsk relays a single question and prints the answer
func (a *app) runAsk(ctx context.Context, question, output string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return fmt.Errorf("question cannot be empty")
	}

	cfg := a.config()
	a.verbose(cfg, "Server: %s", cfg.ServerURL)

	client, err := a.deps.NewClient(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	sink := &consoleSink{recorder: a.recorder(cfg, slog.Default())}

	tty := a.deps.IsTTY()
	var send relay.SendControl
	if tty {
		send = newSpinner(a.deps.Stderr, "Asking the property assistant")
	}
	r := relay.New(client, sink, nil, send, relay.WithLogger(slog.Default()))

	startTime := time.Now()
	if !r.Submit(ctx, question) {
		return fmt.Errorf("question cannot be empty")
	}
	a.verbose(cfg, "Request took %s", time.Since(startTime).Round(time.Millisecond))

	answer, ok := sink.Answer()
	if !ok {
		return errAnswerFailed
	}
	if id := sink.recorder.ConversationID(); id != "" {
		a.verbose(cfg, "Saved to history: %s", id)
	}
	if answer.Source != "" {
		a.verbose(cfg, "Source: %s", answer.Source)
	}

	if cfg.CopyToClipboard && !failureSources[answer.Source] {
		if err := a.deps.CopyToClipboard(answer.Text); err != nil {
			fmt.Fprintln(a.deps.Stderr, warningStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(a.deps.Stderr, successStyle.Render("✓ Copied to clipboard"))
		}
	}

	switch {
	case output != "":
		if err := os.WriteFile(output, []byte(answer.Text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintln(a.deps.Stderr, successStyle.Render(fmt.Sprintf("✓ Answer saved to %s", output)))

	case !tty:
		fmt.Fprintln(a.deps.Stdout, answer.Text)

	default:
		fmt.Fprint(a.deps.Stdout, decorateAnswer(answer, getTerminalWidth()))
	}

	if failureSources[answer.Source] {
		return errAnswerFailed
	}
	return nil
}

// recorder returns a history recorder, or a nil one when history is off
func (a *app) recorder(cfg config.Config, logger *slog.Logger) *history.Recorder {
	if !cfg.SaveHistory {
		return nil
	}
	store, err := a.deps.OpenHistory()
	if err != nil {
		logger.Warn("history disabled", "err", err)
		return nil
	}
	return history.NewRecorder(store, cfg.ServerURL, logger)
}

// decorateAnswer renders an answer the way the chat TUI shows it
func decorateAnswer(answer models.Turn, termWidth int) string {
	bubbleWidth := min(max(termWidth-4, 40), 120)

	rendered := render.PlainText(answer.Text, bubbleWidth-4)
	if answer.ShowSource() {
		rendered += "\n" + sourceStyle.Render("Source: "+answer.Source)
	}

	return assistantLabelStyle.Render("✦ Assistant") + "\n" +
		assistantBubbleStyle.Width(bubbleWidth).Render(rendered) + "\n"
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorWarning)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	// Show response body if available
	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
		return sb.String()
	}

	switch {
	case apierrors.IsConnectionError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Is the backend running? Try 'estate mock-server' for a local one"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise request_timeout with 'estate config set'"))
	case apierrors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The server did not answer with the expected JSON. Check --server"))
	case apierrors.GetHTTPStatus(err) == 503:
		sb.WriteString(dimStyle.Render("\n  Hint: The backend is still initializing. Run the analysis or try again shortly"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your connection and the server URL"))
	}

	return sb.String()
}
