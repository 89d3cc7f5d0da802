package domain

import (
	"context"
	"time"
)

// CatalogSource fetches the category -> items structure.
type CatalogSource interface {
	GetItems(ctx context.Context) ([]Category, error)
}

// Converter performs a price conversion.
type Converter interface {
	Convert(ctx context.Context, req ConversionRequest) (ConversionResult, error)
}

// HistorySource fetches a historical price series.
type HistorySource interface {
	Historical(ctx context.Context, req HistoricalRequest) (HistoricalSeries, error)
}

// HistoryCache stores previously fetched series. Get returns ErrNotFound on
// a miss.
type HistoryCache interface {
	Get(ctx context.Context, req HistoricalRequest) (HistoricalSeries, error)
	Set(ctx context.Context, req HistoricalRequest, series HistoricalSeries, ttl time.Duration) error
}
