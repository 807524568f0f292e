package api

import (
	"context"

	http "github.com/bogdanfinn/fhttp"

	"github.com/diogo/estate/internal/models"
)

// Analyze reruns the buy-vs-rent analysis with the given parameters.
// The backend rewrites the analysed table, so dashboard figures change afterwards.
func (c *Client) Analyze(ctx context.Context, params models.AnalysisParams) (*models.AnalysisResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	resp, err := c.do(ctx, http.MethodPost, models.EndpointAnalyze, nil, params)
	if err != nil {
		return nil, err
	}

	obj, err := decodeEnvelope(models.EndpointAnalyze, resp)
	if err != nil {
		return nil, err
	}

	return &models.AnalysisResult{
		Message:         obj.Get(PathMessage).String(),
		TotalProperties: int(obj.Get(PathTotalProperties).Int()),
		BuyCount:        int(obj.Get(PathBuyCount).Int()),
		RentCount:       int(obj.Get(PathRentCount).Int()),
	}, nil
}

// Cities returns the cities present in the analysed table.
// The backend answers an empty list rather than an error when no data exists.
func (c *Client) Cities(ctx context.Context) ([]string, error) {
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, models.EndpointCityOptions, nil, nil)
	if err != nil {
		return nil, err
	}

	obj, err := decodeEnvelope(models.EndpointCityOptions, resp)
	if err != nil {
		return nil, err
	}

	var cities []string
	for _, city := range obj.Get(PathCities).Array() {
		if name := city.String(); name != "" {
			cities = append(cities, name)
		}
	}
	return cities, nil
}
