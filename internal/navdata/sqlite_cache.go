package navdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rpgo/fund-calculator/internal/domain"
	"github.com/rpgo/fund-calculator/pkg/dateutil"
)

// SQLiteCache persists fetched series in a SQLite file so that repeated CLI
// invocations on the same day do not refetch.
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLiteCache opens (creating if needed) the cache database at path.
func OpenSQLiteCache(ctx context.Context, path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache db %s: %w", path, err)
	}
	c := &SQLiteCache{db: db}
	if err := c.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *SQLiteCache) ensureSchema(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS nav_history_cache (
		instrument_id TEXT PRIMARY KEY,
		fetched_day   TEXT NOT NULL,
		samples       TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

func (c *SQLiteCache) Get(ctx context.Context, instrumentID string) (CacheEntry, bool, error) {
	var fetchedDay, raw string
	err := c.db.QueryRowContext(ctx,
		`SELECT fetched_day, samples FROM nav_history_cache WHERE instrument_id = ?`,
		instrumentID,
	).Scan(&fetchedDay, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return CacheEntry{}, false, nil
	}
	if err != nil {
		return CacheEntry{}, false, fmt.Errorf("read cache entry %s: %w", instrumentID, err)
	}

	day, err := time.Parse(dateutil.ISOLayout, fetchedDay)
	if err != nil {
		return CacheEntry{}, false, fmt.Errorf("parse cached fetch day %q: %w", fetchedDay, err)
	}
	var samples []domain.PriceSample
	if err := json.Unmarshal([]byte(raw), &samples); err != nil {
		return CacheEntry{}, false, fmt.Errorf("decode cached samples for %s: %w", instrumentID, err)
	}
	series, err := NewPriceSeries(instrumentID, samples)
	if err != nil {
		return CacheEntry{}, false, err
	}
	return CacheEntry{LastFetchedDay: day, Series: series}, true, nil
}

func (c *SQLiteCache) Put(ctx context.Context, instrumentID string, entry CacheEntry) error {
	raw, err := json.Marshal(entry.Series.Samples())
	if err != nil {
		return fmt.Errorf("encode samples for %s: %w", instrumentID, err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO nav_history_cache (instrument_id, fetched_day, samples)
		VALUES (?, ?, ?)
		ON CONFLICT(instrument_id) DO UPDATE SET fetched_day = excluded.fetched_day, samples = excluded.samples`,
		instrumentID, dateutil.FormatISO(entry.LastFetchedDay), string(raw),
	)
	if err != nil {
		return fmt.Errorf("write cache entry %s: %w", instrumentID, err)
	}
	return nil
}
