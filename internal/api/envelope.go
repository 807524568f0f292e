package api

import (
	"fmt"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/estate/internal/errors"
)

// decodeEnvelope validates the {success, error} wrapper shared by every endpoint
// and returns the parsed object. A non-JSON body on an error status is reported
// as an APIError, on a 2xx status as a ParseError.
func decodeEnvelope(endpoint string, resp *rawResponse) (gjson.Result, error) {
	if !gjson.ValidBytes(resp.Body) {
		if !isSuccessStatus(resp.StatusCode) {
			return gjson.Result{}, apierrors.NewAPIError(resp.StatusCode, endpoint, http.StatusText(resp.StatusCode)).WithBody(resp.Body)
		}
		return gjson.Result{}, apierrors.NewParseError("response is not valid JSON", endpoint)
	}

	parsed := gjson.ParseBytes(resp.Body)
	if !parsed.IsObject() {
		return gjson.Result{}, apierrors.NewParseError("response is not a JSON object", endpoint)
	}

	if !parsed.Get(PathSuccess).Bool() || !isSuccessStatus(resp.StatusCode) {
		message := parsed.Get(PathError).String()
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		if message == "" {
			message = "request failed"
		}
		return gjson.Result{}, apierrors.NewAPIError(resp.StatusCode, endpoint, message).WithBody(resp.Body)
	}

	return parsed, nil
}

// requireNumber returns the numeric field at path or a ParseError naming it
func requireNumber(endpoint string, obj gjson.Result, path string) (gjson.Result, error) {
	v := obj.Get(path)
	if v.Type != gjson.Number {
		return gjson.Result{}, apierrors.NewParseError(fmt.Sprintf("field %q is missing or not a number", path), endpoint)
	}
	return v, nil
}

// optionalFloat returns a pointer to the numeric value at path, or nil for null/missing
func optionalFloat(obj gjson.Result, path string) *float64 {
	v := obj.Get(path)
	if v.Type != gjson.Number {
		return nil
	}
	f := v.Float()
	return &f
}
