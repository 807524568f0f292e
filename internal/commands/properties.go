package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/estate/internal/api"
	"github.com/diogo/estate/internal/models"
	"github.com/diogo/estate/internal/render"
)

type propertiesFlags struct {
	city        string
	decision    string
	minPrice    float64
	maxPrice    float64
	page        int
	perPage     int
	interactive bool
}

func newPropertiesCmd(a *app) *cobra.Command {
	var flags propertiesFlags

	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"props"},
		Short:   "List the analysed properties",
		Long: `List one page of the analysed properties with their buy-vs-rent decision.
Missing values are shown as N/A.

Examples:
  estate properties --city Pune --decision buy
  estate properties --min-price 5000000 --max-price 9000000 --page 2
  estate properties -i                     Browse with the arrow keys`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProperties(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.city, "city", "", "Only properties in this city")
	cmd.Flags().StringVar(&flags.decision, "decision", "", "Only buy or rent recommendations")
	cmd.Flags().Float64Var(&flags.minPrice, "min-price", 0, "Minimum price in ₹")
	cmd.Flags().Float64Var(&flags.maxPrice, "max-price", 0, "Maximum price in ₹")
	cmd.Flags().IntVar(&flags.page, "page", 1, "Page to show")
	cmd.Flags().IntVar(&flags.perPage, "per-page", 0, "Properties per page (default from config)")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Open the interactive browser")

	return cmd
}

// filter validates the flags and turns them into a property filter
func (f propertiesFlags) filter(defaultPerPage int) (models.PropertyFilter, error) {
	decision, ok := models.ParseDecision(f.decision)
	if !ok {
		return models.PropertyFilter{}, fmt.Errorf("invalid decision %q (use buy, rent or all)", f.decision)
	}
	if f.minPrice < 0 || f.maxPrice < 0 {
		return models.PropertyFilter{}, fmt.Errorf("prices must not be negative")
	}
	if f.maxPrice > 0 && f.minPrice > f.maxPrice {
		return models.PropertyFilter{}, fmt.Errorf("min price %s is above max price %s",
			render.FormatNumber(f.minPrice), render.FormatNumber(f.maxPrice))
	}
	if f.page < 1 {
		return models.PropertyFilter{}, fmt.Errorf("page must be at least 1")
	}

	perPage := f.perPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	return models.PropertyFilter{
		City:     strings.TrimSpace(f.city),
		Decision: decision,
		MinPrice: f.minPrice,
		MaxPrice: f.maxPrice,
		Page:     f.page,
		PerPage:  perPage,
	}, nil
}

func (a *app) runProperties(ctx context.Context, flags propertiesFlags) error {
	cfg := a.config()

	filter, err := flags.filter(cfg.PerPage)
	if err != nil {
		return err
	}

	client, err := a.deps.NewClient(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	if filter.City != "" && !strings.EqualFold(filter.City, "all") {
		city, err := resolveCity(ctx, client, filter.City)
		if err != nil {
			return err
		}
		filter.City = city
	}
	a.verbose(cfg, "Filter: city=%q decision=%q page=%d per_page=%d", filter.City, filter.Decision, filter.Page, filter.PerPage)

	if flags.interactive {
		applyTheme(cfg)
		return a.deps.TUI.RunProperties(ctx, client, filter)
	}

	page, err := client.Properties(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load properties: %w", err)
	}

	a.printMarkdown(cfg, render.PropertiesMarkdown(page))
	return nil
}

// resolveCity checks city against the backend's city options and returns its
// canonical spelling. An empty option list means nothing has been analysed
// yet, so the city is passed through.
func resolveCity(ctx context.Context, client api.ClientInterface, city string) (string, error) {
	cities, err := client.Cities(ctx)
	if err != nil {
		slog.Debug("city validation skipped", "err", err)
		return city, nil
	}
	if len(cities) == 0 {
		return city, nil
	}
	for _, c := range cities {
		if strings.EqualFold(c, city) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown city %q (available: %s)", city, strings.Join(cities, ", "))
}
