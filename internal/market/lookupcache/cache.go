// Package lookupcache persists raw provider payloads in SQLite so repeated
// market lookups avoid re-querying the upstream APIs.
package lookupcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"filmintel/internal/logging"
)

// DefaultTTL bounds how long a cached payload stays fresh.
const DefaultTTL = 72 * time.Hour

const schema = `
CREATE TABLE IF NOT EXISTS lookup_cache (
    source     TEXT NOT NULL,
    query      TEXT NOT NULL,
    payload    BLOB NOT NULL,
    fetched_at TEXT NOT NULL,
    PRIMARY KEY (source, query)
)`

// Cache is a TTL-bounded payload cache keyed by (source, query). A cache
// opened with an empty path is non-functional: every operation is a no-op,
// so callers never branch on whether caching is configured.
type Cache struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Open initializes or connects to the cache database at path. An empty
// path returns an inert cache.
func Open(path string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "lookupcache")
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return &Cache{ttl: ttl, logger: logger}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Cache{db: db, ttl: ttl, logger: logger}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached payload for (source, query) when present and
// fresh. Stale entries are deleted on read.
func (c *Cache) Get(ctx context.Context, source, query string) ([]byte, bool, error) {
	if c == nil || c.db == nil || source == "" || query == "" {
		return nil, false, nil
	}

	var (
		payload   []byte
		fetchedAt string
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM lookup_cache WHERE source = ? AND query = ?`,
		source, query).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	fetched, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil || time.Since(fetched) > c.ttl {
		if _, delErr := c.db.ExecContext(ctx,
			`DELETE FROM lookup_cache WHERE source = ? AND query = ?`,
			source, query); delErr != nil {
			c.logger.Debug("stale cache delete failed", slog.Any("error", delErr))
		}
		return nil, false, nil
	}
	return payload, true, nil
}

// Put stores or replaces the payload for (source, query).
func (c *Cache) Put(ctx context.Context, source, query string, payload []byte) error {
	if c == nil || c.db == nil {
		return nil
	}
	if source == "" || query == "" {
		return errors.New("cache key must not be empty")
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO lookup_cache (source, query, payload, fetched_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(source, query) DO UPDATE SET
             payload = excluded.payload,
             fetched_at = excluded.fetched_at`,
		source, query, payload, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Prune deletes every entry older than the cache TTL and reports how many
// rows were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	if c == nil || c.db == nil {
		return 0, nil
	}

	cutoff := time.Now().UTC().Add(-c.ttl).Format(time.RFC3339Nano)
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM lookup_cache WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	if removed > 0 {
		c.logger.Debug("pruned cache entries", slog.Int64("removed", removed))
	}
	return removed, nil
}
