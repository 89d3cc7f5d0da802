package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

func TestHistoryCacheExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewHistoryCache()
	c.now = func() time.Time { return now }

	ctx := context.Background()
	req := domain.HistoricalRequest{ItemKey: "gold_oz", From: "2024-01-01", To: "2024-06-01"}
	series := domain.HistoricalSeries{ItemKey: "gold_oz", Points: []domain.PricePoint{{Date: now, BtcPrice: 0.04}}}

	_, err := c.Get(ctx, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, c.Set(ctx, req, series, time.Minute))
	series.Points[0].BtcPrice = 99 // caller mutation must not leak in

	got, err := c.Get(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0.04, got.Points[0].BtcPrice)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, c.Len())
}

func TestHistoryCacheNoTTL(t *testing.T) {
	c := NewHistoryCache()
	ctx := context.Background()
	req := domain.HistoricalRequest{ItemKey: "oil"}
	require.NoError(t, c.Set(ctx, req, domain.HistoricalSeries{ItemKey: "oil"}, 0))

	_, err := c.Get(ctx, req)
	assert.NoError(t, err)
	_, err = c.Get(ctx, domain.HistoricalRequest{ItemKey: "oil", From: "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
