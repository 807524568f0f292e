// Package models contains data types and constants for the real-estate analytics API.
package models

// Endpoints of the analytics backend, relative to the configured server URL
const (
	EndpointChat        = "/api/chat"
	EndpointDashboard   = "/api/dashboard"
	EndpointProperties  = "/api/properties"
	EndpointAnalyze     = "/api/analyze"
	EndpointCityOptions = "/api/city-options"
	EndpointExport      = "/api/export"
)

// DefaultServerURL is where the backend listens when run locally
const DefaultServerURL = "http://localhost:5000"

// DefaultPerPage is the property table page size used by the dashboard
const DefaultPerPage = 10

// Export formats accepted by the export endpoint
const (
	ExportCSV  = "csv"
	ExportJSON = "json"
)

// Decisions produced by the buy-vs-rent analysis
const (
	DecisionBuy  = "Buy"
	DecisionRent = "Rent"
)

// DefaultHeaders returns the headers sent with every JSON request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type":    "application/json",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// ParseDecision normalises user input ("buy", "RENT", "all") into a backend decision value.
// An empty result means no decision filter.
func ParseDecision(s string) (string, bool) {
	switch s {
	case "", "all", "All", "ALL":
		return "", true
	case "buy", "Buy", "BUY":
		return DecisionBuy, true
	case "rent", "Rent", "RENT":
		return DecisionRent, true
	default:
		return "", false
	}
}
