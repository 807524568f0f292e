package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/spf13/cobra"

	"github.com/diogo/estate/internal/config"
	"github.com/diogo/estate/internal/tui"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat with the property assistant.

Only one question is in flight at a time; press Esc to cancel it.
Type /clear to clear the screen and start a new saved conversation,
/exit or press Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd)
		},
	}
}

func (a *app) runChat(cmd *cobra.Command) error {
	cfg := a.config()
	applyTheme(cfg)

	logger, closeLog, err := chatLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := a.deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	opts := tui.ChatOptions{
		Server: cfg.ServerURL,
		Logger: logger,
	}
	// a nil *history.Recorder must not become a non-nil interface
	if rec := a.recorder(cfg, logger); rec != nil {
		opts.Recorder = rec
	}

	return a.deps.TUI.RunChat(cmd.Context(), client, opts)
}

// chatLogger keeps slog off the alt screen: debug.log when DEBUG is set,
// nowhere otherwise
func chatLogger() (*slog.Logger, func(), error) {
	if !misc.Truthy(os.Getenv("DEBUG")) {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	if _, err := config.EnsureConfigDir(); err != nil {
		return nil, nil, err
	}
	path, err := config.GetDebugLogPath()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open debug log: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}
