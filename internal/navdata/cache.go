package navdata

import (
	"context"
	"sync"
	"time"

	"github.com/rpgo/fund-calculator/pkg/dateutil"
)

// CacheEntry is a fetched series stamped with the calendar day it was fetched on.
type CacheEntry struct {
	LastFetchedDay time.Time
	Series         *PriceSeries
}

// FreshOn reports whether the entry was fetched on the same calendar day as now.
func (e CacheEntry) FreshOn(now time.Time) bool {
	return e.Series != nil && dateutil.SameDay(e.LastFetchedDay, now)
}

// Cache stores one entry per instrument. Staleness is decided by the caller
// via CacheEntry.FreshOn; implementations only store and return entries.
type Cache interface {
	Get(ctx context.Context, instrumentID string) (CacheEntry, bool, error)
	Put(ctx context.Context, instrumentID string, entry CacheEntry) error
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]CacheEntry)}
}

func (c *MemoryCache) Get(_ context.Context, instrumentID string) (CacheEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[instrumentID]
	return e, ok, nil
}

func (c *MemoryCache) Put(_ context.Context, instrumentID string, entry CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[instrumentID] = entry
	return nil
}
