package render

import (
	"fmt"
	"strings"

	"github.com/diogo/estate/internal/models"
)

// AnalysisMarkdown summarises a finished analysis run and the parameters used
func AnalysisMarkdown(res *models.AnalysisResult, params models.AnalysisParams) string {
	var b strings.Builder
	b.WriteString("## Analysis completed\n\n")
	if res.Message != "" {
		b.WriteString(res.Message + "\n\n")
	}
	fmt.Fprintf(&b, "- **Total properties:** %s\n", FormatNumber(float64(res.TotalProperties)))
	fmt.Fprintf(&b, "- **Buy:** %s (%d%%)\n", FormatNumber(float64(res.BuyCount)),
		Percent(res.BuyCount, res.TotalProperties))
	fmt.Fprintf(&b, "- **Rent:** %s (%d%%)\n", FormatNumber(float64(res.RentCount)),
		Percent(res.RentCount, res.TotalProperties))

	b.WriteString("\n### Parameters\n\n")
	b.WriteString("| Parameter | Value |\n| --- | --- |\n")
	fmt.Fprintf(&b, "| Down payment | %g%% |\n", params.DownPaymentPercent)
	fmt.Fprintf(&b, "| Loan rate | %g%% |\n", params.LoanRate)
	fmt.Fprintf(&b, "| Tax rate | %g%% |\n", params.TaxRate)
	fmt.Fprintf(&b, "| Appreciation | %g%% |\n", params.AppreciationRate)
	fmt.Fprintf(&b, "| Rent escalation | %g%% |\n", params.RentEscalation)
	fmt.Fprintf(&b, "| Investment return | %g%% |\n", params.InvestRate)
	fmt.Fprintf(&b, "| Monthly saving | ₹%s |\n", FormatNumber(params.MonthlySaving))
	return b.String()
}

// CitiesMarkdown renders the city options as a bullet list
func CitiesMarkdown(cities []string) string {
	if len(cities) == 0 {
		return "*No cities available. Run an analysis first.*\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Cities (%d)\n\n", len(cities))
	for _, c := range cities {
		b.WriteString("- " + c + "\n")
	}
	return b.String()
}
