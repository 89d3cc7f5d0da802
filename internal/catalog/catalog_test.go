package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

type scriptedSource struct {
	mu      sync.Mutex
	results []result
	calls   atomic.Int32
	delay   time.Duration
}

type result struct {
	categories []domain.Category
	err        error
}

func (s *scriptedSource) GetItems(context.Context) ([]domain.Category, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return r.categories, r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var metals = domain.Category{Name: "Metals", Items: []domain.ItemDescriptor{
	{Key: "gold_oz", DisplayName: "Gold", Unit: "ounce", SupportsHistorical: true},
	{Key: "silver_oz", DisplayName: "Silver", Unit: "ounce"},
}}

var food = domain.Category{Name: "Food", Items: []domain.ItemDescriptor{
	{Key: "big_mac", DisplayName: "Big Mac", Unit: "burger"},
}}

func TestLoadAndLookup(t *testing.T) {
	src := &scriptedSource{results: []result{{categories: []domain.Category{food, metals}}}}
	c := New(src, discardLogger())
	assert.Empty(t, c.CategoriesInOrder())

	_, err := c.Load(context.Background())
	require.NoError(t, err)

	got := c.CategoriesInOrder()
	require.Len(t, got, 2)
	assert.Equal(t, "Food", got[0].Name)
	assert.Equal(t, "Metals", got[1].Name)
	assert.Equal(t, 3, c.Len())

	item, ok := c.Lookup("gold_oz")
	require.True(t, ok)
	assert.True(t, item.SupportsHistorical)
	_, ok = c.Lookup("oil")
	assert.False(t, ok)
}

func TestFailedLoadKeepsSnapshot(t *testing.T) {
	src := &scriptedSource{results: []result{
		{categories: []domain.Category{metals}},
		{err: &domain.RequestError{Status: 500}},
		{categories: []domain.Category{metals, food}},
	}}
	c := New(src, discardLogger())

	_, err := c.Load(context.Background())
	require.NoError(t, err)

	_, err = c.Load(context.Background())
	var lerr *domain.LoadError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, "Failed to load items: Failed to fetch items", domain.UserMessage(err, ""))
	assert.Equal(t, 2, c.Len())

	// manual retry
	_, err = c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestConcurrentLoadsShareFetch(t *testing.T) {
	src := &scriptedSource{
		results: []result{{categories: []domain.Category{metals}}},
		delay:   50 * time.Millisecond,
	}
	c := New(src, discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Load(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, src.calls.Load(), int32(5))
	assert.Equal(t, 2, c.Len())
}

func TestSnapshotIsolatedFromSource(t *testing.T) {
	cats := []domain.Category{{Name: "Metals", Items: []domain.ItemDescriptor{{Key: "gold_oz", DisplayName: "Gold"}}}}
	c := New(&scriptedSource{results: []result{{categories: cats}}}, discardLogger())
	_, err := c.Load(context.Background())
	require.NoError(t, err)

	cats[0].Items[0].DisplayName = "Changed"
	item, _ := c.Lookup("gold_oz")
	assert.Equal(t, "Gold", item.DisplayName)
}
