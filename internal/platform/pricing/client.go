// Package pricing is the REST client for the pricing backend, which serves
// the item catalog, conversions and historical BTC-denominated prices.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client talks to the pricing backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new pricing client.
//
// baseURL is the backend root, e.g. "http://localhost:8000". A zero timeout
// falls back to 15 seconds.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "pricing")),
	}
}

// GetItems returns the catalog grouped by category, in server order.
func (c *Client) GetItems(ctx context.Context) ([]domain.Category, error) {
	body, err := c.doGet(ctx, "/api/items")
	if err != nil {
		return nil, fmt.Errorf("pricing: get items: %w", err)
	}

	categories, err := decodeCategories(body)
	if err != nil {
		return nil, fmt.Errorf("pricing: decode items: %w", err)
	}
	return categories, nil
}

// Convert asks the backend to convert between BTC and an item quantity.
func (c *Client) Convert(ctx context.Context, req domain.ConversionRequest) (domain.ConversionResult, error) {
	params := url.Values{}
	params.Set("item", req.ItemKey)
	params.Set("direction", string(req.Direction))
	params.Set("sats", strconv.FormatBool(req.Sats))
	if req.Direction == domain.DirectionBtcToItem {
		params.Set("btc_amount", req.Amount.String())
	} else {
		params.Set("quantity", req.Amount.String())
	}

	body, err := c.doGet(ctx, "/api/convert?"+params.Encode())
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("pricing: convert %s: %w", req.ItemKey, err)
	}

	var resp APIConvertResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.ConversionResult{}, fmt.Errorf("pricing: decode conversion: %w: %v", domain.ErrMalformed, err)
	}
	result, err := resp.ToDomain()
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("pricing: decode conversion: %w", err)
	}
	return result, nil
}

// Historical returns the BTC price series of an item between two dates.
func (c *Client) Historical(ctx context.Context, req domain.HistoricalRequest) (domain.HistoricalSeries, error) {
	params := url.Values{}
	params.Set("item", req.ItemKey)
	params.Set("from_date", req.From)
	params.Set("to_date", req.To)

	body, err := c.doGet(ctx, "/api/historical?"+params.Encode())
	if err != nil {
		return domain.HistoricalSeries{}, fmt.Errorf("pricing: historical %s: %w", req.ItemKey, err)
	}

	var resp APIHistoricalResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.HistoricalSeries{}, fmt.Errorf("pricing: decode historical: %w: %v", domain.ErrMalformed, err)
	}
	series, err := resp.ToDomain(req.ItemKey)
	if err != nil {
		return domain.HistoricalSeries{}, fmt.Errorf("pricing: decode historical: %w", err)
	}
	return series, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doGet sends a GET request and returns the body of a 2xx response.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.TransportError{Op: "read response", Err: err}
	}

	c.logger.DebugContext(ctx, "backend request",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return &domain.RequestError{Status: statusCode, Detail: detailFrom(body)}
}

// Compile-time interface checks.
var (
	_ domain.CatalogSource = (*Client)(nil)
	_ domain.Converter     = (*Client)(nil)
	_ domain.HistorySource = (*Client)(nil)
)
