package predict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-scrape-laptops/models"
	"github.com/go-resty/resty/v2"
)

// ErrMalformedResponse is returned when the endpoint answers without a
// price range.
var ErrMalformedResponse = errors.New("predict: malformed response")

// Client calls the hosted inference endpoint.
type Client struct {
	client *resty.Client
	url    string
	apiKey string
}

// NewClient returns a client posting to url with the given API key.
func NewClient(url, apiKey string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	return &Client{
		client: client,
		url:    url,
		apiKey: apiKey,
	}
}

type rangeResponse struct {
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
}

// Predict posts the feature row and decodes {min_price, max_price}.
func (c *Client) Predict(ctx context.Context, row *models.CleanRow) (Range, error) {
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", c.apiKey).
		SetBody(row).
		Post(c.url)
	if err != nil {
		return Range{}, fmt.Errorf("call inference endpoint: %w", err)
	}
	if res.IsError() {
		return Range{}, fmt.Errorf("inference endpoint returned %s", res.Status())
	}

	var decoded rangeResponse
	if err := json.Unmarshal(res.Body(), &decoded); err != nil {
		return Range{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if decoded.MinPrice == nil || decoded.MaxPrice == nil {
		return Range{}, fmt.Errorf("%w: missing price bounds", ErrMalformedResponse)
	}

	slog.Debug("price range received",
		slog.Float64("min", *decoded.MinPrice),
		slog.Float64("max", *decoded.MaxPrice),
		slog.Duration("took", res.Time()),
	)
	return Range{Min: *decoded.MinPrice, Max: *decoded.MaxPrice}, nil
}
