package models

// ChatRequest is the body posted to the chat endpoint
type ChatRequest struct {
	Message string `json:"message"`
}

// DashboardStats are the aggregates shown on the dashboard
type DashboardStats struct {
	TotalProperties     int     `json:"total_properties"`
	BuyRecommendations  int     `json:"buy_recommendations"`
	RentRecommendations int     `json:"rent_recommendations"`
	AvgPrice            float64 `json:"avg_price"`
	AvgArea             float64 `json:"avg_area"`
}

// Property is one row of the analysed property table.
// Pointer fields are nil when the backend sent null.
type Property struct {
	Location      string   `json:"location"`
	City          string   `json:"city"`
	Price         *float64 `json:"price"`
	AreaSqft      *float64 `json:"area_sqft"`
	BHK           *float64 `json:"bhk"`
	PricePerSqft  *float64 `json:"price_per_sqft"`
	WealthBuying  *float64 `json:"wealth_buying"`
	WealthRenting *float64 `json:"wealth_renting"`
	Decision      string   `json:"decision"`
}

// PropertyPage is one page of the filtered property table
type PropertyPage struct {
	Properties []Property `json:"data"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalPages int        `json:"total_pages"`
}

// HasPrev reports whether a previous page exists
func (p *PropertyPage) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a following page exists
func (p *PropertyPage) HasNext() bool {
	return p.Page < p.TotalPages
}

// PropertyFilter holds the query parameters of the property table
type PropertyFilter struct {
	City     string
	Decision string
	MinPrice float64
	MaxPrice float64
	Page     int
	PerPage  int
}

// DefaultPropertyFilter returns the unfiltered first page
func DefaultPropertyFilter() PropertyFilter {
	return PropertyFilter{Page: 1, PerPage: DefaultPerPage}
}

// Reset clears all filters and returns to the first page, keeping the page size
func (f PropertyFilter) Reset() PropertyFilter {
	perPage := f.PerPage
	f = DefaultPropertyFilter()
	if perPage > 0 {
		f.PerPage = perPage
	}
	return f
}

// ExportResult holds a downloaded export
type ExportResult struct {
	Format string
	Data   []byte
}
