package api

import (
	"context"

	http "github.com/bogdanfinn/fhttp"

	"github.com/diogo/estate/internal/models"
)

// Dashboard fetches the aggregate figures of the analysed property set
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, models.EndpointDashboard, nil, nil)
	if err != nil {
		return nil, err
	}

	return parseDashboard(resp)
}

func parseDashboard(resp *rawResponse) (*models.DashboardStats, error) {
	const endpoint = models.EndpointDashboard

	obj, err := decodeEnvelope(endpoint, resp)
	if err != nil {
		return nil, err
	}

	var stats models.DashboardStats
	fields := []struct {
		path string
		set  func(float64)
	}{
		{PathTotalProperties, func(v float64) { stats.TotalProperties = int(v) }},
		{PathBuyRecommendations, func(v float64) { stats.BuyRecommendations = int(v) }},
		{PathRentRecommendations, func(v float64) { stats.RentRecommendations = int(v) }},
		{PathAvgPrice, func(v float64) { stats.AvgPrice = v }},
	}
	for _, f := range fields {
		v, err := requireNumber(endpoint, obj, f.path)
		if err != nil {
			return nil, err
		}
		f.set(v.Float())
	}

	// avg_area is informational and older backends omit it
	if v := optionalFloat(obj, PathAvgArea); v != nil {
		stats.AvgArea = *v
	}

	return &stats, nil
}
