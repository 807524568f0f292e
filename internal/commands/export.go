package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/spf13/cobra"

	"github.com/diogo/estate/internal/models"
	"github.com/diogo/estate/internal/render"
)

func newCitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the cities with analysed properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config()
			client, err := a.deps.NewClient(cfg, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			defer client.Close()

			cities, err := client.Cities(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load cities: %w", err)
			}

			a.printMarkdown(cfg, render.CitiesMarkdown(cities))
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the analysed properties",
		Long: `Download every analysed property as CSV or as an indented JSON array.
Without --output the data is written to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != models.ExportCSV && format != models.ExportJSON {
				return fmt.Errorf("invalid format %q (use csv or json)", format)
			}

			cfg := a.config()
			client, err := a.deps.NewClient(cfg, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			defer client.Close()

			res, err := client.Export(cmd.Context(), format)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if output == "" || output == "-" {
				_, err := a.deps.Stdout.Write(res.Data)
				return err
			}

			if err := os.WriteFile(output, res.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			ancli.PrintOK(fmt.Sprintf("exported %s to %s (%d bytes)\n", strings.ToUpper(format), output, len(res.Data)))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", models.ExportCSV, "Export format: csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default stdout)")

	return cmd
}
