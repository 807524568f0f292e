package render

import (
	"fmt"
	"strings"

	"github.com/diogo/estate/internal/models"
)

// MessageNoProperties is shown in place of an empty table
const MessageNoProperties = "No properties found"

var propertyColumns = []string{
	"Location", "City", "Price", "Area (sqft)", "BHK",
	"₹/sqft", "Wealth (Buy)", "Wealth (Rent)", "Decision",
}

// PropertyColumns returns the headers matching PropertyRow
func PropertyColumns() []string {
	cols := make([]string, len(propertyColumns))
	copy(cols, propertyColumns)
	return cols
}

// PropertyRow returns the nine display cells of a property
func PropertyRow(p models.Property) []string {
	return []string{
		orNA(p.Location),
		orNA(p.City),
		FormatRupees(p.Price),
		FormatOptional(p.AreaSqft),
		FormatOptional(p.BHK),
		FormatRupees(p.PricePerSqft),
		FormatRupees(p.WealthBuying),
		FormatRupees(p.WealthRenting),
		DecisionBadge(p.Decision),
	}
}

// DecisionBadge upper-cases a known recommendation and marks anything else N/A
func DecisionBadge(decision string) string {
	d, ok := models.ParseDecision(decision)
	if !ok || d == "" {
		return NotAvailable
	}
	return strings.ToUpper(d)
}

// PageFooter is the "Page X of Y" line under the table
func PageFooter(page *models.PropertyPage) string {
	totalPages := page.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	return fmt.Sprintf("Page %d of %d", page.Page, totalPages)
}

// PropertiesMarkdown renders one page of properties as a markdown table
// followed by the page footer
func PropertiesMarkdown(page *models.PropertyPage) string {
	var b strings.Builder
	if len(page.Properties) == 0 {
		b.WriteString("*" + MessageNoProperties + "*\n\n")
	} else {
		b.WriteString("| " + strings.Join(propertyColumns, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(propertyColumns)) + "\n")
		for _, p := range page.Properties {
			cells := PropertyRow(p)
			for i, c := range cells {
				cells[i] = escapeCell(c)
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s · %s properties\n", PageFooter(page), FormatNumber(float64(page.Total)))
	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
