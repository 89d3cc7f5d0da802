// Package memory provides an in-process HistoryCache for runs without Redis.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

type entry struct {
	series    domain.HistoricalSeries
	expiresAt time.Time // zero means no expiry
}

// HistoryCache is a mutex-guarded map with per-entry expiry. Expired entries
// are dropped lazily on read.
type HistoryCache struct {
	mu      sync.RWMutex
	entries map[domain.HistoricalRequest]entry
	now     func() time.Time
}

// NewHistoryCache creates an empty cache.
func NewHistoryCache() *HistoryCache {
	return &HistoryCache{
		entries: make(map[domain.HistoricalRequest]entry),
		now:     time.Now,
	}
}

// Get returns domain.ErrNotFound for missing or expired entries.
func (c *HistoryCache) Get(_ context.Context, req domain.HistoricalRequest) (domain.HistoricalSeries, error) {
	c.mu.RLock()
	e, ok := c.entries[req]
	c.mu.RUnlock()
	if !ok {
		return domain.HistoricalSeries{}, domain.ErrNotFound
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, req)
		c.mu.Unlock()
		return domain.HistoricalSeries{}, domain.ErrNotFound
	}
	return e.series, nil
}

// Set stores a copy of series.
func (c *HistoryCache) Set(_ context.Context, req domain.HistoricalRequest, series domain.HistoricalSeries, ttl time.Duration) error {
	points := make([]domain.PricePoint, len(series.Points))
	copy(points, series.Points)

	e := entry{series: domain.HistoricalSeries{ItemKey: series.ItemKey, Points: points}}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[req] = e
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *HistoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ domain.HistoryCache = (*HistoryCache)(nil)
