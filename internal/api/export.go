package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/estate/internal/errors"
	"github.com/diogo/estate/internal/models"
)

// Export downloads the analysed table as CSV or as an indented JSON array
func (c *Client) Export(ctx context.Context, format string) (*models.ExportResult, error) {
	if format != models.ExportCSV && format != models.ExportJSON {
		return nil, fmt.Errorf("unsupported export format %q (use csv or json)", format)
	}

	ctx, cancel := c.withDefaultTimeout(ctx)
	defer cancel()

	query := url.Values{}
	query.Set("format", format)

	resp, err := c.do(ctx, http.MethodGet, models.EndpointExport, query, nil)
	if err != nil {
		return nil, err
	}

	if format == models.ExportCSV {
		return parseCSVExport(resp)
	}
	return parseJSONExport(resp)
}

// parseCSVExport accepts a raw CSV body. Failures still come back as a JSON envelope.
func parseCSVExport(resp *rawResponse) (*models.ExportResult, error) {
	trimmed := bytes.TrimSpace(resp.Body)
	if len(trimmed) > 0 && trimmed[0] == '{' && gjson.ValidBytes(trimmed) {
		if _, err := decodeEnvelope(models.EndpointExport, resp); err != nil {
			return nil, err
		}
	}
	if !isSuccessStatus(resp.StatusCode) {
		return nil, apierrors.NewAPIError(resp.StatusCode, models.EndpointExport, http.StatusText(resp.StatusCode)).WithBody(resp.Body)
	}
	return &models.ExportResult{Format: models.ExportCSV, Data: resp.Body}, nil
}

func parseJSONExport(resp *rawResponse) (*models.ExportResult, error) {
	obj, err := decodeEnvelope(models.EndpointExport, resp)
	if err != nil {
		return nil, err
	}

	data := obj.Get(PathData)
	if !data.IsArray() {
		return nil, apierrors.NewParseError("field \"data\" is missing or not an array", models.EndpointExport)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, []byte(data.Raw), "", "  "); err != nil {
		return nil, apierrors.NewParseError(err.Error(), models.EndpointExport)
	}
	out.WriteByte('\n')

	return &models.ExportResult{Format: models.ExportJSON, Data: out.Bytes()}, nil
}
