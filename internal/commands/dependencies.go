package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/atotto/clipboard"

	"github.com/diogo/estate/internal/api"
	"github.com/diogo/estate/internal/config"
	"github.com/diogo/estate/internal/history"
	"github.com/diogo/estate/internal/models"
	"github.com/diogo/estate/internal/relay"
	"github.com/diogo/estate/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, transport relay.Transport, opts tui.ChatOptions) error
	RunProperties(ctx context.Context, source tui.PropertySource, filter models.PropertyFilter) error
	RunHistoryManager(store tui.HistoryManagerStore) (*history.Conversation, error)
	RunConfig(cfg config.Config, configPath string, save tui.SaveFunc) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the backend client for the effective config
	NewClient func(cfg config.Config, logger *slog.Logger) (api.ClientInterface, error)

	// LoadConfig reads the config file; environment overrides are applied on top
	LoadConfig func() (config.Config, error)
	SaveConfig func(cfg config.Config) error
	ConfigPath func() (string, error)

	// OpenHistory opens the conversation store
	OpenHistory func() (*history.Store, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// CopyToClipboard copies an answer when copy_to_clipboard is on
	CopyToClipboard func(text string) error

	// IsTTY reports whether stdout is a terminal
	IsTTY func() bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, transport relay.Transport, opts tui.ChatOptions) error {
	return tui.RunChat(ctx, transport, opts)
}

func (d *DefaultTUI) RunProperties(ctx context.Context, source tui.PropertySource, filter models.PropertyFilter) error {
	return tui.RunProperties(ctx, source, filter)
}

func (d *DefaultTUI) RunHistoryManager(store tui.HistoryManagerStore) (*history.Conversation, error) {
	return tui.RunHistoryManager(store)
}

func (d *DefaultTUI) RunConfig(cfg config.Config, configPath string, save tui.SaveFunc) error {
	return tui.RunConfig(cfg, configPath, save)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:       newBackendClient,
		LoadConfig:      config.LoadConfig,
		SaveConfig:      config.SaveConfig,
		ConfigPath:      config.GetConfigPath,
		OpenHistory:     history.DefaultStore,
		TUI:             &DefaultTUI{},
		CopyToClipboard: clipboard.WriteAll,
		IsTTY:           isStdoutTTY,
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
	}
}

// newBackendClient builds the browser-profile REST client
func newBackendClient(cfg config.Config, logger *slog.Logger) (api.ClientInterface, error) {
	client, err := api.NewClient(
		api.WithBaseURL(cfg.ServerURL),
		api.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}
