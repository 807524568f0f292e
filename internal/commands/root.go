// Package commands provides CLI commands for estate.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/estate/internal/config"
	"github.com/diogo/estate/internal/render"
	"github.com/diogo/estate/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// app carries the dependencies and the persistent flags every command reads
type app struct {
	deps   *Dependencies
	server string
}

// NewRootCmd builds the command tree on top of deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	a := &app{deps: deps}

	var (
		outputFlag string
		fileFlag   string
	)

	rootCmd := &cobra.Command{
		Use:   "estate [question]",
		Short: "Terminal client for the real-estate analytics backend",
		Long: `estate talks to the property analytics backend: ask questions, browse the
analysed properties, rerun the buy-vs-rent analysis and export the results.

Examples:
  estate chat                              Start interactive chat
  estate "average price in pune"           Ask a single question
  estate -f question.txt                   Read the question from a file
  echo "buy or rent in delhi?" | estate    Read the question from stdin
  estate dashboard                         Show the headline numbers
  estate properties --city Pune -i         Browse properties interactively
  estate analyze --loan-rate 9 --dashboard Rerun the analysis
  estate mock-server                       Serve a local fixture backend`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "estate %s (built %s)\n", Version, BuildTime)
				return nil
			}

			question, ok, err := a.readQuestion(args, fileFlag)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return a.runAsk(cmd.Context(), question, outputFlag)
		},
	}

	rootCmd.SetIn(deps.Stdin)
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	rootCmd.PersistentFlags().StringVarP(&a.server, "server", "s", "", "Backend URL (overrides config and "+config.EnvServerURL+")")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the answer to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the question from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(
		newChatCmd(a),
		newDashboardCmd(a),
		newPropertiesCmd(a),
		newAnalyzeCmd(a),
		newCitiesCmd(a),
		newExportCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
		newMockServerCmd(a),
	)

	return rootCmd
}

// Execute runs the root command and returns the process exit code
func Execute(ctx context.Context) int {
	for _, path := range config.LoadEnvFiles() {
		slog.Debug("loaded environment file", "path", path)
	}

	deps := NewDependencies()
	if err := NewRootCmd(deps).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errAnswerFailed) {
			fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Error"))
		}
		return 1
	}
	return 0
}

// readQuestion picks the question from --file, the positional argument or piped stdin
func (a *app) readQuestion(args []string, file string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if a.hasPipedStdin() {
		data, err := io.ReadAll(a.deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", false, nil
		}
		return string(data), true, nil
	}

	return "", false, nil
}

func (a *app) hasPipedStdin() bool {
	if a.deps.Stdin == nil {
		return false
	}
	f, ok := a.deps.Stdin.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// config returns the effective configuration: file, then environment, then --server
func (a *app) config() config.Config {
	cfg, err := a.deps.LoadConfig()
	if err != nil {
		slog.Warn("falling back to default config", "err", err)
	}
	cfg = config.ApplyEnv(cfg)
	if a.server != "" {
		cfg.ServerURL = strings.TrimRight(a.server, "/")
	}
	return cfg
}

// verbose prints a [verbose] line to stderr when enabled
func (a *app) verbose(cfg config.Config, format string, args ...any) {
	if cfg.Verbose {
		fmt.Fprintf(a.deps.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// applyTheme activates the configured TUI theme for the charts and screens
func applyTheme(cfg config.Config) {
	if !render.SetTUITheme(cfg.TUITheme) {
		slog.Debug("unknown tui theme, keeping default", "theme", cfg.TUITheme)
	}
	tui.UpdateTheme()
}
