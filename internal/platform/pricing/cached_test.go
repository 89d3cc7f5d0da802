package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/btcconvert/internal/cache/memory"
	"github.com/alanyoungcy/btcconvert/internal/domain"
)

type mockHistory struct{ mock.Mock }

func (m *mockHistory) Historical(ctx context.Context, req domain.HistoricalRequest) (domain.HistoricalSeries, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.HistoricalSeries), args.Error(1)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, domain.HistoricalRequest) (domain.HistoricalSeries, error) {
	return domain.HistoricalSeries{}, errors.New("connection reset")
}

func (brokenCache) Set(context.Context, domain.HistoricalRequest, domain.HistoricalSeries, time.Duration) error {
	return errors.New("connection reset")
}

var goldReq = domain.HistoricalRequest{ItemKey: "gold_oz", From: "2024-01-01", To: "2024-02-01"}

func goldSeries() domain.HistoricalSeries {
	return domain.HistoricalSeries{ItemKey: "gold_oz", Points: []domain.PricePoint{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), BtcPrice: 0.048},
	}}
}

func TestCachedHistoryReadThrough(t *testing.T) {
	src := &mockHistory{}
	src.On("Historical", mock.Anything, goldReq).Return(goldSeries(), nil).Once()

	h := NewCachedHistory(src, memory.NewHistoryCache(), time.Minute, testLogger())
	for i := 0; i < 3; i++ {
		series, err := h.Historical(context.Background(), goldReq)
		require.NoError(t, err)
		assert.Equal(t, goldSeries(), series)
	}
	src.AssertExpectations(t)
}

func TestCachedHistoryDoesNotCacheErrors(t *testing.T) {
	src := &mockHistory{}
	src.On("Historical", mock.Anything, goldReq).
		Return(domain.HistoricalSeries{}, &domain.RequestError{Status: 400, Detail: "bad range"}).Twice()

	h := NewCachedHistory(src, memory.NewHistoryCache(), time.Minute, testLogger())
	for i := 0; i < 2; i++ {
		_, err := h.Historical(context.Background(), goldReq)
		require.Error(t, err)
	}
	src.AssertExpectations(t)
}

func TestCachedHistoryIgnoresCacheFailures(t *testing.T) {
	src := &mockHistory{}
	src.On("Historical", mock.Anything, goldReq).Return(goldSeries(), nil)

	h := NewCachedHistory(src, brokenCache{}, time.Minute, testLogger())
	series, err := h.Historical(context.Background(), goldReq)
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())
}
