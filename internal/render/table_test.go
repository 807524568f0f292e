package render

import (
	"strings"
	"testing"

	"github.com/diogo/estate/internal/models"
)

func TestPropertyRow(t *testing.T) {
	p := models.Property{
		Location:      "Baner",
		City:          "Pune",
		Price:         ptr(7500000),
		AreaSqft:      ptr(1050),
		BHK:           ptr(2),
		PricePerSqft:  ptr(7142.86),
		WealthBuying:  ptr(15000000),
		WealthRenting: ptr(12000000.4),
		Decision:      "Buy",
	}
	want := []string{"Baner", "Pune", "₹7,500,000", "1,050", "2", "₹7,143", "₹15,000,000", "₹12,000,000", "BUY"}

	got := PropertyRow(p)
	if len(got) != len(propertyColumns) {
		t.Fatalf("row has %d cells, want %d", len(got), len(propertyColumns))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d (%s) = %q, want %q", i, propertyColumns[i], got[i], want[i])
		}
	}
}

func TestPropertyRow_MissingValues(t *testing.T) {
	got := PropertyRow(models.Property{})
	for i, c := range got {
		if c != NotAvailable {
			t.Errorf("cell %d (%s) = %q, want %q", i, propertyColumns[i], c, NotAvailable)
		}
	}
}

func TestDecisionBadge(t *testing.T) {
	tests := map[string]string{
		"Buy":   "BUY",
		"rent":  "RENT",
		"":      NotAvailable,
		"maybe": NotAvailable,
	}
	for in, want := range tests {
		if got := DecisionBadge(in); got != want {
			t.Errorf("DecisionBadge(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPageFooter(t *testing.T) {
	if got := PageFooter(&models.PropertyPage{Page: 2, TotalPages: 5}); got != "Page 2 of 5" {
		t.Errorf("PageFooter() = %q", got)
	}
	if got := PageFooter(&models.PropertyPage{Page: 1, TotalPages: 0}); got != "Page 1 of 1" {
		t.Errorf("PageFooter() with no pages = %q", got)
	}
}

func TestPropertiesMarkdown(t *testing.T) {
	page := &models.PropertyPage{
		Properties: []models.Property{
			{Location: "Andheri | West", City: "Mumbai", Price: ptr(12500000), Decision: "rent"},
		},
		Total:      11,
		Page:       1,
		PerPage:    10,
		TotalPages: 2,
	}
	out := PropertiesMarkdown(page)

	for _, want := range []string{"| Location |", "Andheri \\| West", "₹12,500,000", "RENT", "Page 1 of 2", "11 properties"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, MessageNoProperties) {
		t.Error("non-empty page shows the empty notice")
	}
}

func TestPropertiesMarkdown_Empty(t *testing.T) {
	out := PropertiesMarkdown(&models.PropertyPage{Page: 1, TotalPages: 0})
	if !strings.Contains(out, MessageNoProperties) {
		t.Errorf("missing empty notice:\n%s", out)
	}
	if strings.Contains(out, "| Location |") {
		t.Error("empty page should not render a header row")
	}
}

func TestAnalysisMarkdown(t *testing.T) {
	res := &models.AnalysisResult{Message: "Analysis completed successfully", TotalProperties: 40, BuyCount: 30, RentCount: 10}
	out := AnalysisMarkdown(res, models.DefaultAnalysisParams())

	for _, want := range []string{"Analysis completed successfully", "**Total properties:** 40", "**Buy:** 30 (75%)", "**Rent:** 10 (25%)", "| Loan rate | 8.5% |", "₹15,000"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestCitiesMarkdown(t *testing.T) {
	if out := CitiesMarkdown(nil); !strings.Contains(out, "No cities") {
		t.Errorf("empty cities = %q", out)
	}
	out := CitiesMarkdown([]string{"Mumbai", "Pune"})
	for _, want := range []string{"Cities (2)", "- Mumbai", "- Pune"} {
		if !strings.Contains(out, want) {
			t.Errorf("cities missing %q:\n%s", want, out)
		}
	}
}
