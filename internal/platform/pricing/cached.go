package pricing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

// CachedHistory is a read-through cache in front of a HistorySource. Cache
// failures are logged and otherwise ignored; only successful series are
// stored.
type CachedHistory struct {
	source domain.HistorySource
	cache  domain.HistoryCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedHistory wraps source with cache.
func NewCachedHistory(source domain.HistorySource, cache domain.HistoryCache, ttl time.Duration, logger *slog.Logger) *CachedHistory {
	return &CachedHistory{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "history_cache")),
	}
}

// Historical serves from the cache when possible.
func (h *CachedHistory) Historical(ctx context.Context, req domain.HistoricalRequest) (domain.HistoricalSeries, error) {
	series, err := h.cache.Get(ctx, req)
	switch {
	case err == nil:
		h.logger.DebugContext(ctx, "history cache hit",
			slog.String("item", req.ItemKey),
			slog.String("from", req.From),
			slog.String("to", req.To),
		)
		return series, nil
	case !errors.Is(err, domain.ErrNotFound):
		h.logger.WarnContext(ctx, "history cache get failed", slog.String("error", err.Error()))
	}

	series, err = h.source.Historical(ctx, req)
	if err != nil {
		return domain.HistoricalSeries{}, err
	}

	if err := h.cache.Set(ctx, req, series, h.ttl); err != nil {
		h.logger.WarnContext(ctx, "history cache set failed", slog.String("error", err.Error()))
	}
	return series, nil
}

var _ domain.HistorySource = (*CachedHistory)(nil)
