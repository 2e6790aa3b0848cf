package navdata

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fund-calculator/internal/domain"
)

func testSeries(t *testing.T) *PriceSeries {
	t.Helper()
	series, err := NewPriceSeries("120503", []domain.PriceSample{
		sample(day(2023, 1, 2), "10.5"),
		sample(day(2023, 1, 3), "10.75"),
	})
	require.NoError(t, err)
	return series
}

func TestCacheEntryFreshOn(t *testing.T) {
	entry := CacheEntry{LastFetchedDay: day(2024, 5, 10), Series: testSeries(t)}
	assert.True(t, entry.FreshOn(time.Date(2024, 5, 10, 23, 0, 0, 0, time.UTC)))
	assert.False(t, entry.FreshOn(day(2024, 5, 11)))
	assert.False(t, CacheEntry{LastFetchedDay: day(2024, 5, 10)}.FreshOn(day(2024, 5, 10)))
}

func TestCaches(t *testing.T) {
	ctx := context.Background()
	sqliteCache, err := OpenSQLiteCache(ctx, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteCache.Close() })

	caches := map[string]Cache{
		"memory": NewMemoryCache(),
		"sqlite": sqliteCache,
	}
	for name, cache := range caches {
		t.Run(name, func(t *testing.T) {
			_, ok, err := cache.Get(ctx, "120503")
			require.NoError(t, err)
			assert.False(t, ok)

			series := testSeries(t)
			require.NoError(t, cache.Put(ctx, "120503", CacheEntry{LastFetchedDay: day(2024, 5, 10), Series: series}))
			require.NoError(t, cache.Put(ctx, "120503", CacheEntry{LastFetchedDay: day(2024, 5, 11), Series: series}))

			got, ok, err := cache.Get(ctx, "120503")
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, got.LastFetchedDay.Equal(day(2024, 5, 11)))
			assert.Equal(t, series.Len(), got.Series.Len())

			latest, err := got.Series.Latest()
			require.NoError(t, err)
			assert.Equal(t, "10.75", latest.Price.String())
		})
	}
}
