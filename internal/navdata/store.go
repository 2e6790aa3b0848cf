package navdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/internal/metrics"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
)

// Cache lookup result labels.
const (
	lookupHit   = "hit"
	lookupMiss  = "miss"
	lookupStale = "stale"
	lookupError = "error"
)

// Store serves catalog and history data, refetching a scheme's history at
// most once per calendar day.
type Store struct {
	source Source
	cache  Cache
	now    func() time.Time
	logger Logger

	mu         sync.Mutex
	catalog    *Catalog
	catalogDay time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used for cache freshness.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store logger.
func WithLogger(l Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store over source. A nil cache means an in-memory cache.
func NewStore(source Source, cache Cache, opts ...StoreOption) *Store {
	if cache == nil {
		cache = NewMemoryCache()
	}
	s := &Store{
		source: source,
		cache:  cache,
		now:    time.Now,
		logger: NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History returns the NAV history for instrumentID, fetching only when the
// cached copy was not fetched today. A cache read failure is logged and
// treated as a miss.
func (s *Store) History(ctx context.Context, instrumentID string) (*PriceSeries, error) {
	today := dateutil.Day(s.now())

	entry, ok, err := s.cache.Get(ctx, instrumentID)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(lookupError).Inc()
		s.logger.Warnf("cache read for %s failed: %v", instrumentID, err)
	case ok && entry.FreshOn(today):
		metrics.CacheLookups.WithLabelValues(lookupHit).Inc()
		s.logger.Debugf("cache hit for %s", instrumentID)
		return entry.Series, nil
	case ok:
		metrics.CacheLookups.WithLabelValues(lookupStale).Inc()
	default:
		metrics.CacheLookups.WithLabelValues(lookupMiss).Inc()
	}

	series, err := s.source.FetchHistory(ctx, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", instrumentID, err)
	}
	if err := s.cache.Put(ctx, instrumentID, CacheEntry{LastFetchedDay: today, Series: series}); err != nil {
		s.logger.Warnf("cache write for %s failed: %v", instrumentID, err)
	}
	s.logger.Infof("fetched %d NAV samples for %s", series.Len(), instrumentID)
	return series, nil
}

// Catalog returns the scheme list, fetched at most once per day per store.
func (s *Store) Catalog(ctx context.Context) (*Catalog, error) {
	today := dateutil.Day(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog != nil && s.catalogDay.Equal(today) {
		return s.catalog, nil
	}
	instruments, err := s.source.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	s.catalog = NewCatalog(instruments)
	s.catalogDay = today
	s.logger.Infof("loaded %d schemes", s.catalog.Len())
	return s.catalog, nil
}

// Search looks up schemes by name fragment.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]domain.Instrument, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.Search(query, limit), nil
}

// Resolve maps a scheme code or exact name to an instrument.
func (s *Store) Resolve(ctx context.Context, text string) (domain.Instrument, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return domain.Instrument{}, err
	}
	return c.Resolve(text)
}

// LatestNAV returns the most recent sample of the scheme's history.
func (s *Store) LatestNAV(ctx context.Context, instrumentID string) (domain.PriceSample, error) {
	series, err := s.History(ctx, instrumentID)
	if err != nil {
		return domain.PriceSample{}, err
	}
	return series.Latest()
}
