package api

import (
	"context"
	"strings"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/estate/internal/errors"
	"github.com/diogo/estate/internal/models"
)

// ChatResult is the raw answer of the chat endpoint.
// The body is left undecoded: interpreting it is the relay's job, including
// bodies that are not JSON at all.
type ChatResult struct {
	StatusCode int
	Body       []byte
}

// PostChat sends a question to the chat endpoint. The call is bound to ctx and
// carries no deadline of its own. Any HTTP status is returned as a result;
// only transport failures are errors.
func (c *Client) PostChat(ctx context.Context, message string) (*ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apierrors.ErrEmptyMessage
	}

	resp, err := c.do(ctx, http.MethodPost, models.EndpointChat, nil, models.ChatRequest{Message: message})
	if err != nil {
		return nil, err
	}

	return &ChatResult{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}
