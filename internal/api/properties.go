package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/estate/internal/errors"
	"github.com/diogo/estate/internal/models"
)

// Properties fetches one page of the analysed property table
func (c *Client) Properties(ctx context.Context, filter models.PropertyFilter) (*models.PropertyPage, error) {
	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, models.EndpointProperties, propertyQuery(filter), nil)
	if err != nil {
		return nil, err
	}

	return parseProperties(resp)
}

// propertyQuery encodes a filter the way the dashboard page does: "all" and
// zero values are left out
func propertyQuery(filter models.PropertyFilter) url.Values {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = models.DefaultPerPage
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	if city := strings.TrimSpace(filter.City); city != "" && !strings.EqualFold(city, "all") {
		q.Set("city", city)
	}
	if filter.Decision != "" && !strings.EqualFold(filter.Decision, "all") {
		q.Set("decision", filter.Decision)
	}
	if filter.MinPrice > 0 {
		q.Set("min_price", strconv.FormatFloat(filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64))
	}
	return q
}

func parseProperties(resp *rawResponse) (*models.PropertyPage, error) {
	const endpoint = models.EndpointProperties

	obj, err := decodeEnvelope(endpoint, resp)
	if err != nil {
		return nil, err
	}

	data := obj.Get(PathData)
	if !data.IsArray() {
		return nil, apierrors.NewParseError("field \"data\" is missing or not an array", endpoint)
	}

	page := &models.PropertyPage{
		Total:      int(obj.Get(PathTotal).Int()),
		Page:       int(obj.Get(PathPage).Int()),
		PerPage:    int(obj.Get(PathPerPage).Int()),
		TotalPages: int(obj.Get(PathTotalPages).Int()),
		Properties: make([]models.Property, 0, len(data.Array())),
	}
	if page.Page < 1 {
		page.Page = 1
	}

	data.ForEach(func(_, row gjson.Result) bool {
		page.Properties = append(page.Properties, parseProperty(row))
		return true
	})

	return page, nil
}

func parseProperty(row gjson.Result) models.Property {
	return models.Property{
		Location:      stringOrEmpty(row.Get(PathPropLocation)),
		City:          stringOrEmpty(row.Get(PathPropCity)),
		Price:         optionalFloat(row, PathPropPrice),
		AreaSqft:      optionalFloat(row, PathPropAreaSqft),
		BHK:           optionalFloat(row, PathPropBHK),
		PricePerSqft:  optionalFloat(row, PathPropPricePerSqft),
		WealthBuying:  optionalFloat(row, PathPropWealthBuying),
		WealthRenting: optionalFloat(row, PathPropWealthRenting),
		Decision:      stringOrEmpty(row.Get(PathPropDecision)),
	}
}

// stringOrEmpty returns the string form of a value, treating null as empty
func stringOrEmpty(r gjson.Result) string {
	if r.Type == gjson.Null {
		return ""
	}
	return r.String()
}
