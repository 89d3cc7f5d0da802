package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alanyoungcy/btcconvert/internal/domain"
	"github.com/redis/go-redis/v9"
)

// HistoryCache implements domain.HistoryCache with one JSON string per
// request at key "{prefix}:history:{item}:{from}:{to}".
type HistoryCache struct {
	c *Client
}

// NewHistoryCache creates a HistoryCache backed by the given Client.
func NewHistoryCache(c *Client) *HistoryCache {
	return &HistoryCache{c: c}
}

// cachedPoint stores the full RFC3339 timestamp, time of day included.
type cachedPoint struct {
	Date     string  `json:"date"`
	BtcPrice float64 `json:"btc_price"`
}

func (h *HistoryCache) historyKey(req domain.HistoricalRequest) string {
	return h.c.key("history", req.ItemKey, req.From, req.To)
}

// Get returns domain.ErrNotFound when nothing is cached for req.
func (h *HistoryCache) Get(ctx context.Context, req domain.HistoricalRequest) (domain.HistoricalSeries, error) {
	raw, err := h.c.rdb.Get(ctx, h.historyKey(req)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.HistoricalSeries{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.HistoricalSeries{}, fmt.Errorf("redis: get history %s: %w", req.ItemKey, err)
	}
	series, err := decodeSeries(req.ItemKey, raw)
	if err != nil {
		return domain.HistoricalSeries{}, fmt.Errorf("redis: decode history %s: %w", req.ItemKey, err)
	}
	return series, nil
}

// Set stores series for req. A zero ttl keeps the entry until evicted.
func (h *HistoryCache) Set(ctx context.Context, req domain.HistoricalRequest, series domain.HistoricalSeries, ttl time.Duration) error {
	raw, err := encodeSeries(series)
	if err != nil {
		return fmt.Errorf("redis: encode history %s: %w", req.ItemKey, err)
	}
	if err := h.c.rdb.Set(ctx, h.historyKey(req), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set history %s: %w", req.ItemKey, err)
	}
	return nil
}

func encodeSeries(series domain.HistoricalSeries) ([]byte, error) {
	points := make([]cachedPoint, len(series.Points))
	for i, p := range series.Points {
		points[i] = cachedPoint{Date: p.Date.Format(time.RFC3339Nano), BtcPrice: p.BtcPrice}
	}
	return json.Marshal(points)
}

// decodeSeries also reads bare dates written by older versions.
func decodeSeries(itemKey string, raw []byte) (domain.HistoricalSeries, error) {
	var points []cachedPoint
	if err := json.Unmarshal(raw, &points); err != nil {
		return domain.HistoricalSeries{}, err
	}
	series := domain.HistoricalSeries{ItemKey: itemKey, Points: make([]domain.PricePoint, 0, len(points))}
	for _, p := range points {
		d, err := time.Parse(time.RFC3339Nano, p.Date)
		if err != nil {
			if d, err = time.Parse(domain.DateLayout, p.Date); err != nil {
				return domain.HistoricalSeries{}, err
			}
		}
		series.Points = append(series.Points, domain.PricePoint{Date: d, BtcPrice: p.BtcPrice})
	}
	return series, nil
}

// Compile-time interface check.
var _ domain.HistoryCache = (*HistoryCache)(nil)
