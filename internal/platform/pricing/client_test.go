package pricing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second, testLogger())
}

func TestGetItemsKeepsOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/items", r.URL.Path)
		_, _ = io.WriteString(w, `{
			"Metals": [{"key": "gold_oz", "name": "Gold", "historical_support": true, "unit": "ounce"}],
			"Food": [{"key": "big_mac", "name": "Big Mac", "historical_support": false, "unit": "burger"}],
			"Energy": []
		}`)
	})

	categories, err := c.GetItems(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Metals", categories[0].Name)
	assert.Equal(t, "Food", categories[1].Name)
	assert.Equal(t, "Energy", categories[2].Name)
	assert.Equal(t, domain.ItemDescriptor{Key: "gold_oz", DisplayName: "Gold", Unit: "ounce", SupportsHistorical: true}, categories[0].Items[0])
	assert.Empty(t, categories[2].Items)
}

func TestGetItemsMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"array":       `[]`,
		"missing key": `{"Metals": [{"name": "Gold"}]}`,
		"truncated":   `{"Metals": [`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			_, err := c.GetItems(context.Background())
			assert.ErrorIs(t, err, domain.ErrMalformed)
		})
	}
}

func TestConvertQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/convert", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "gold_oz", q.Get("item"))
		assert.Equal(t, "btc_to_item", q.Get("direction"))
		assert.Equal(t, "false", q.Get("sats"))
		assert.Equal(t, "0.1", q.Get("btc_amount"))
		assert.False(t, q.Has("quantity"))
		_, _ = io.WriteString(w, `{"quantity": 3.25, "usd_item": 2000, "usd_total": 6500, "btc_price": 65000}`)
	})

	res, err := c.Convert(context.Background(), domain.ConversionRequest{
		ItemKey:   "gold_oz",
		Direction: domain.DirectionBtcToItem,
		Amount:    decimal.RequireFromString("0.1"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ConversionResult{Quantity: 3.25, ItemUnitPriceUSD: 2000, TotalValueUSD: 6500, BtcPriceUSD: 65000}, res)
}

func TestConvertItemToBtcSats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "item_to_btc", q.Get("direction"))
		assert.Equal(t, "true", q.Get("sats"))
		assert.Equal(t, "2", q.Get("quantity"))
		assert.False(t, q.Has("btc_amount"))
		_, _ = io.WriteString(w, `{"quantity": 6153846, "usd_item": 2000, "usd_total": 4000, "btc_price": 65000}`)
	})

	res, err := c.Convert(context.Background(), domain.ConversionRequest{
		ItemKey:   "gold_oz",
		Direction: domain.DirectionItemToBtc,
		Sats:      true,
		Amount:    decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 6153846.0, res.Quantity)
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"string detail", http.StatusNotFound, `{"detail": "Item not found"}`, "Item not found"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail": [{"loc": ["query", "item"], "msg": "field required"}]}`, domain.MsgConvertFailed},
		{"no body", http.StatusInternalServerError, ``, domain.MsgConvertFailed},
		{"incomplete", http.StatusOK, `{"quantity": 1}`, domain.MsgConvertFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.Convert(context.Background(), domain.ConversionRequest{
				ItemKey: "gold_oz", Direction: domain.DirectionBtcToItem, Amount: decimal.NewFromInt(1),
			})
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, domain.UserMessage(err, domain.MsgConvertFailed))
		})
	}
}

func TestRequestErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Historical data not supported"}`, http.StatusBadRequest)
	})
	_, err := c.Historical(context.Background(), domain.HistoricalRequest{ItemKey: "big_mac", From: "2024-01-01", To: "2024-02-01"})

	var rerr *domain.RequestError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusBadRequest, rerr.Status)
	assert.Equal(t, "Historical data not supported", rerr.Detail)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(srv.URL, time.Second, testLogger())

	_, err := c.GetItems(context.Background())
	var terr *domain.TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, domain.MsgTransport, domain.UserMessage(err, "Failed to fetch items"))
}

func TestHistorical(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/historical", r.URL.Path)
		assert.Equal(t, "gold_oz", q.Get("item"))
		assert.Equal(t, "2024-01-01", q.Get("from_date"))
		assert.Equal(t, "2024-03-01", q.Get("to_date"))
		_, _ = io.WriteString(w, `{"dates": ["2024-02-01", "2024-01-01T00:00:00Z", "2024-03-01"], "btc_prices": [0.045, 0.048, 0.041]}`)
	})

	series, err := c.Historical(context.Background(), domain.HistoricalRequest{ItemKey: "gold_oz", From: "2024-01-01", To: "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "gold_oz", series.ItemKey)
	assert.Equal(t, []float64{0.048, 0.045, 0.041}, series.Prices())
	assert.Equal(t, time.January, series.Points[0].Date.Month())
}

func TestHistoricalLengthMismatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"dates": ["2024-01-01", "2024-02-01"], "btc_prices": [0.048]}`)
	})
	_, err := c.Historical(context.Background(), domain.HistoricalRequest{ItemKey: "gold_oz", From: "2024-01-01", To: "2024-02-01"})
	assert.ErrorIs(t, err, domain.ErrMalformed)
	assert.Equal(t, domain.MsgHistoryFailed, domain.UserMessage(err, domain.MsgHistoryFailed))
}
