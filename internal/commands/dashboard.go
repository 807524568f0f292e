package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/diogo/estate/internal/api"
	"github.com/diogo/estate/internal/config"
	"github.com/diogo/estate/internal/render"
)

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show the headline numbers and charts",
		Long: `Show the total number of analysed properties, the buy and rent
recommendations and the average price, with a buy/rent split bar and an
average price bar.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config()
			client, err := a.deps.NewClient(cfg, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			defer client.Close()

			return a.printDashboard(cmd.Context(), cfg, client)
		},
	}
}

func (a *app) printDashboard(ctx context.Context, cfg config.Config, client api.ClientInterface) error {
	stats, err := client.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}

	applyTheme(cfg)
	fmt.Fprintln(a.deps.Stdout, render.DashboardView(*stats, getTerminalWidth(), render.GetTUITheme()))
	return nil
}

// printMarkdown renders md for a terminal, or writes it as-is when piped
func (a *app) printMarkdown(cfg config.Config, md string) {
	if !a.deps.IsTTY() {
		fmt.Fprint(a.deps.Stdout, md)
		return
	}
	opts := render.OptionsFromConfig(cfg.Markdown).WithWidth(getTerminalWidth())
	fmt.Fprint(a.deps.Stdout, render.MarkdownOrPlain(md, opts))
}
