package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

func unreachableClient(prefix string) *Client {
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			MaxRetries:  -1,
			DialTimeout: 200 * time.Millisecond,
		}),
		prefix: prefix,
	}
}

func TestHistoryKey(t *testing.T) {
	req := domain.HistoricalRequest{ItemKey: "gold_oz", From: "2024-01-01", To: "2024-06-01"}

	h := NewHistoryCache(unreachableClient("btcconvert"))
	assert.Equal(t, "btcconvert:history:gold_oz:2024-01-01:2024-06-01", h.historyKey(req))

	h = NewHistoryCache(unreachableClient(""))
	assert.Equal(t, "history:gold_oz:2024-01-01:2024-06-01", h.historyKey(req))
}

func TestHistoryCacheConnectionErrors(t *testing.T) {
	c := unreachableClient("btcconvert")
	defer c.Close()
	h := NewHistoryCache(c)
	req := domain.HistoricalRequest{ItemKey: "gold_oz", From: "2024-01-01", To: "2024-06-01"}

	_, err := h.Get(context.Background(), req)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound), "connection failures are not cache misses")

	err = h.Set(context.Background(), req, domain.HistoricalSeries{ItemKey: "gold_oz"}, time.Minute)
	assert.ErrorContains(t, err, "redis: set history gold_oz")
}

func TestSeriesEncodingKeepsTimestamps(t *testing.T) {
	series := domain.HistoricalSeries{
		ItemKey: "gold_oz",
		Points: []domain.PricePoint{
			{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), BtcPrice: 0.045},
			{Date: time.Date(2024, 1, 2, 15, 30, 5, 0, time.FixedZone("", 2*3600)), BtcPrice: 0.044},
		},
	}

	raw, err := encodeSeries(series)
	require.NoError(t, err)
	got, err := decodeSeries("gold_oz", raw)
	require.NoError(t, err)

	assert.Equal(t, "gold_oz", got.ItemKey)
	require.Len(t, got.Points, 2)
	for i, p := range series.Points {
		assert.True(t, p.Date.Equal(got.Points[i].Date), "point %d: %s != %s", i, p.Date, got.Points[i].Date)
		assert.Equal(t, p.BtcPrice, got.Points[i].BtcPrice)
	}
}

func TestSeriesDecodingAcceptsBareDates(t *testing.T) {
	got, err := decodeSeries("gold_oz", []byte(`[{"date":"2024-03-01","btc_price":0.05}]`))
	require.NoError(t, err)
	require.Len(t, got.Points, 1)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got.Points[0].Date)

	_, err = decodeSeries("gold_oz", []byte(`[{"date":"March 1","btc_price":0.05}]`))
	assert.Error(t, err)
}
