// Package api provides the REST client for the real-estate analytics backend.
package api

// GJSON paths for extracting values from backend responses.
// Every endpoint wraps its payload in the same {success, error, ...} envelope.
const (
	PathSuccess  = "success"
	PathError    = "error"
	PathResponse = "response"
	PathSource   = "source"
	PathData     = "data"
	PathMessage  = "message"

	// Dashboard aggregates
	PathTotalProperties     = "total_properties"
	PathBuyRecommendations  = "buy_recommendations"
	PathRentRecommendations = "rent_recommendations"
	PathAvgPrice            = "avg_price"
	PathAvgArea             = "avg_area"

	// Property page
	PathTotal      = "total"
	PathPage       = "page"
	PathPerPage    = "per_page"
	PathTotalPages = "total_pages"

	// Property row (relative to a row object)
	PathPropLocation      = "location"
	PathPropCity          = "city"
	PathPropPrice         = "price"
	PathPropAreaSqft      = "area_sqft"
	PathPropBHK           = "bhk"
	PathPropPricePerSqft  = "price_per_sqft"
	PathPropWealthBuying  = "wealth_buying"
	PathPropWealthRenting = "wealth_renting"
	PathPropDecision      = "decision"

	// Analysis summary
	PathBuyCount  = "buy_count"
	PathRentCount = "rent_count"

	// City options
	PathCities = "cities"
)
