// Package catalog holds the set of selectable items. The catalog is fetched
// from the backend and swapped in as one snapshot; readers never observe a
// partially loaded catalog.
package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

type snapshot struct {
	categories []domain.Category
	byKey      map[string]domain.ItemDescriptor
}

// Catalog is safe for concurrent use.
type Catalog struct {
	source domain.CatalogSource
	snap   atomic.Pointer[snapshot]
	group  singleflight.Group
	logger *slog.Logger
}

// New creates an empty Catalog backed by source.
func New(source domain.CatalogSource, logger *slog.Logger) *Catalog {
	c := &Catalog{
		source: source,
		logger: logger.With(slog.String("component", "catalog")),
	}
	c.snap.Store(&snapshot{byKey: map[string]domain.ItemDescriptor{}})
	return c
}

// Load fetches the catalog and replaces the current snapshot. On failure it
// returns a *domain.LoadError and keeps whatever was loaded before.
// Concurrent calls share one fetch.
func (c *Catalog) Load(ctx context.Context) ([]domain.Category, error) {
	v, err, shared := c.group.Do("items", func() (any, error) {
		categories, err := c.source.GetItems(ctx)
		if err != nil {
			return nil, &domain.LoadError{Err: err}
		}
		c.snap.Store(build(categories))
		return categories, nil
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "catalog load failed", slog.String("error", err.Error()))
		return nil, err
	}

	categories := v.([]domain.Category)
	c.logger.InfoContext(ctx, "catalog loaded",
		slog.Int("categories", len(categories)),
		slog.Bool("shared", shared),
	)
	return categories, nil
}

// Lookup returns the descriptor for key.
func (c *Catalog) Lookup(key string) (domain.ItemDescriptor, bool) {
	item, ok := c.snap.Load().byKey[key]
	return item, ok
}

// CategoriesInOrder returns the categories in server order.
func (c *Catalog) CategoriesInOrder() []domain.Category {
	return c.snap.Load().categories
}

// Len returns the number of items across all categories.
func (c *Catalog) Len() int {
	return len(c.snap.Load().byKey)
}

func build(categories []domain.Category) *snapshot {
	s := &snapshot{
		categories: make([]domain.Category, len(categories)),
		byKey:      make(map[string]domain.ItemDescriptor),
	}
	for i, cat := range categories {
		items := make([]domain.ItemDescriptor, len(cat.Items))
		copy(items, cat.Items)
		s.categories[i] = domain.Category{Name: cat.Name, Items: items}
		for _, it := range items {
			s.byKey[it.Key] = it
		}
	}
	return s
}
