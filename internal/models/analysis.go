package models

import "fmt"

// AnalysisParams are the "what-if" inputs of the buy-vs-rent analysis
type AnalysisParams struct {
	DownPaymentPercent float64 `json:"down_payment_percent"`
	LoanRate           float64 `json:"loan_rate"`
	TaxRate            float64 `json:"tax_rate"`
	AppreciationRate   float64 `json:"appreciation_rate"`
	RentEscalation     float64 `json:"rent_escalation"`
	InvestRate         float64 `json:"invest_rate"`
	MonthlySaving      float64 `json:"monthly_saving"`
}

// DefaultAnalysisParams returns the parameters the backend uses when none are given
func DefaultAnalysisParams() AnalysisParams {
	return AnalysisParams{
		DownPaymentPercent: 20,
		LoanRate:           8.5,
		TaxRate:            20,
		AppreciationRate:   5,
		RentEscalation:     5,
		InvestRate:         10,
		MonthlySaving:      15000,
	}
}

// Validate checks that every rate is a percentage and the saving is not negative
func (p AnalysisParams) Validate() error {
	percents := []struct {
		name  string
		value float64
	}{
		{"down payment", p.DownPaymentPercent},
		{"loan rate", p.LoanRate},
		{"tax rate", p.TaxRate},
		{"appreciation rate", p.AppreciationRate},
		{"rent escalation", p.RentEscalation},
		{"invest rate", p.InvestRate},
	}
	for _, pc := range percents {
		if pc.value != pc.value || pc.value < 0 || pc.value > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %v", pc.name, pc.value)
		}
	}
	if p.MonthlySaving != p.MonthlySaving || p.MonthlySaving < 0 {
		return fmt.Errorf("monthly saving must not be negative, got %v", p.MonthlySaving)
	}
	return nil
}

// AnalysisResult summarises a completed analysis run
type AnalysisResult struct {
	Message         string `json:"message"`
	TotalProperties int    `json:"total_properties"`
	BuyCount        int    `json:"buy_count"`
	RentCount       int    `json:"rent_count"`
}
