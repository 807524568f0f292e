package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/estate/internal/models"
	"github.com/diogo/estate/internal/render"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	params := models.DefaultAnalysisParams()
	var showDashboard bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rerun the buy-vs-rent analysis",
		Long: `Rerun the buy-vs-rent analysis over every property with your own
assumptions. Rates are percentages per year.

Examples:
  estate analyze
  estate analyze --down-payment 30 --loan-rate 9.1
  estate analyze --monthly-saving 25000 --dashboard`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := params.Validate(); err != nil {
				return err
			}

			cfg := a.config()
			client, err := a.deps.NewClient(cfg, slog.Default())
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			defer client.Close()

			ctx := cmd.Context()
			startTime := time.Now()
			res, err := client.Analyze(ctx, params)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			a.verbose(cfg, "Analysis took %s", time.Since(startTime).Round(time.Millisecond))

			a.printMarkdown(cfg, render.AnalysisMarkdown(res, params))

			if showDashboard {
				fmt.Fprintln(a.deps.Stdout)
				return a.printDashboard(ctx, cfg, client)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&params.DownPaymentPercent, "down-payment", params.DownPaymentPercent, "Down payment, % of the price")
	f.Float64Var(&params.LoanRate, "loan-rate", params.LoanRate, "Home loan interest rate, %")
	f.Float64Var(&params.TaxRate, "tax-rate", params.TaxRate, "Income tax rate, %")
	f.Float64Var(&params.AppreciationRate, "appreciation", params.AppreciationRate, "Property appreciation, %")
	f.Float64Var(&params.RentEscalation, "rent-escalation", params.RentEscalation, "Yearly rent increase, %")
	f.Float64Var(&params.InvestRate, "invest-rate", params.InvestRate, "Return on invested savings, %")
	f.Float64Var(&params.MonthlySaving, "monthly-saving", params.MonthlySaving, "Amount invested every month, ₹")
	f.BoolVar(&showDashboard, "dashboard", false, "Show the refreshed dashboard afterwards")

	return cmd
}
