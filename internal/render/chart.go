package render

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/estate/internal/models"
)

// ErrChartData is wrapped by ValidateDashboard failures
var ErrChartData = errors.New("chart data unavailable")

const (
	barCell   = "█"
	emptyCell = "░"

	minBarWidth = 10
	cardWidth   = 20
)

// ValidateDashboard checks that the aggregates can be charted
func ValidateDashboard(s models.DashboardStats) error {
	switch {
	case s.TotalProperties < 0 || s.BuyRecommendations < 0 || s.RentRecommendations < 0:
		return fmt.Errorf("%w: negative count", ErrChartData)
	case s.BuyRecommendations+s.RentRecommendations > s.TotalProperties:
		return fmt.Errorf("%w: %d buy + %d rent exceeds %d properties",
			ErrChartData, s.BuyRecommendations, s.RentRecommendations, s.TotalProperties)
	case math.IsNaN(s.AvgPrice) || math.IsInf(s.AvgPrice, 0) || s.AvgPrice < 0:
		return fmt.Errorf("%w: invalid average price", ErrChartData)
	case math.IsNaN(s.AvgArea) || math.IsInf(s.AvgArea, 0) || s.AvgArea < 0:
		return fmt.Errorf("%w: invalid average area", ErrChartData)
	}
	return nil
}

// SplitBar draws the buy/rent split as one bar of width cells plus a legend
func SplitBar(buy, rent, width int, theme TUITheme) string {
	if width < minBarWidth {
		width = minBarWidth
	}
	buyStyle := lipgloss.NewStyle().Foreground(theme.Buy)
	rentStyle := lipgloss.NewStyle().Foreground(theme.Rent)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	total := buy + rent
	if total == 0 {
		return dim.Render(strings.Repeat(emptyCell, width)) + "\n" +
			dim.Render("No recommendations yet")
	}

	buyCells := int(math.Round(float64(buy) * float64(width) / float64(total)))
	bar := buyStyle.Render(strings.Repeat(barCell, buyCells)) +
		rentStyle.Render(strings.Repeat(barCell, width-buyCells))

	legend := fmt.Sprintf("%s %s  %s %s",
		buyStyle.Render("■"),
		fmt.Sprintf("Buy %s (%d%%)", FormatNumber(float64(buy)), Percent(buy, total)),
		rentStyle.Render("■"),
		fmt.Sprintf("Rent %s (%d%%)", FormatNumber(float64(rent)), Percent(rent, total)),
	)
	return bar + "\n" + legend
}

// niceCeiling rounds v up to one significant digit: 4,350,000 becomes 5,000,000
func niceCeiling(v float64) float64 {
	if v <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	return math.Ceil(v/mag) * mag
}

// PriceBar draws the average price as a horizontal bar on a 0..ceiling axis
func PriceBar(avg float64, width int, theme TUITheme) string {
	if width < minBarWidth {
		width = minBarWidth
	}
	priceStyle := lipgloss.NewStyle().Foreground(theme.Price)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	ceiling := niceCeiling(avg)
	cells := int(math.Round(avg / ceiling * float64(width)))
	if avg > 0 && cells == 0 {
		cells = 1
	}
	if cells > width {
		cells = width
	}

	bar := priceStyle.Render(strings.Repeat(barCell, cells)) +
		dim.Render(strings.Repeat(emptyCell, width-cells))

	left := "₹0"
	right := "₹" + FormatNumber(ceiling)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	axis := dim.Render(left + strings.Repeat(" ", gap) + right)

	return fmt.Sprintf("Avg Price %s ₹%s\n          %s", bar, FormatNumber(avg), axis)
}

// StatCards renders the four headline numbers side by side
func StatCards(s models.DashboardStats, theme TUITheme) string {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Width(cardWidth)
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	value := lipgloss.NewStyle().Bold(true)

	cards := []struct {
		title string
		value string
		color lipgloss.Color
	}{
		{"Total Properties", FormatNumber(float64(s.TotalProperties)), theme.Primary},
		{"Buy", FormatNumber(float64(s.BuyRecommendations)), theme.Buy},
		{"Rent", FormatNumber(float64(s.RentRecommendations)), theme.Rent},
		{"Avg Price", "₹" + FormatNumber(s.AvgPrice), theme.Price},
	}

	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = card.Render(label.Render(c.title) + "\n" + value.Foreground(c.color).Render(c.value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// DashboardView renders the cards and both charts, or a degraded notice
// when the aggregates fail validation
func DashboardView(s models.DashboardStats, width int, theme TUITheme) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render("Dashboard")

	if err := ValidateDashboard(s); err != nil {
		warn := lipgloss.NewStyle().Foreground(theme.Warning)
		return title + "\n\n" + warn.Render(err.Error()) + "\n"
	}

	barWidth := width - 20
	if barWidth > 60 {
		barWidth = 60
	}

	heading := lipgloss.NewStyle().Bold(true)
	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(StatCards(s, theme) + "\n\n")
	b.WriteString(heading.Render("Buy vs Rent") + "\n")
	b.WriteString(SplitBar(s.BuyRecommendations, s.RentRecommendations, barWidth, theme) + "\n\n")
	b.WriteString(heading.Render("Average Price") + "\n")
	b.WriteString(PriceBar(s.AvgPrice, barWidth, theme) + "\n")
	if s.AvgArea > 0 {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("Average area: %s sqft", FormatNumber(s.AvgArea))) + "\n")
	}
	return b.String()
}
