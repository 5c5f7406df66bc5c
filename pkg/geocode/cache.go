package geocode

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // sqlite driver
)

// Cache is a local SQLite-backed geocode result cache. Misses (Matched=false)
// are cached too, so repeated lookups of a bad address skip the provider.
type Cache struct {
	db      *sql.DB
	ttlDays int
}

// OpenCache opens (and migrates) a cache database at the given path.
// A ttlDays of 0 disables expiry.
func OpenCache(path string, ttlDays int) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: open cache db")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS geocode_cache (
			address_hash TEXT PRIMARY KEY,
			latitude     REAL NOT NULL,
			longitude    REAL NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			source       TEXT NOT NULL DEFAULT '',
			matched      INTEGER NOT NULL,
			cached_at    INTEGER NOT NULL
		)`)
	if err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "geocode: migrate cache db")
	}

	return &Cache{db: db, ttlDays: ttlDays}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// cacheKey returns SHA-256 hex of the normalized address.
func cacheKey(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}

// Get returns the cached result for an address, or nil on a cache miss or
// expired entry.
func (c *Cache) Get(ctx context.Context, address string) (*Result, error) {
	query := `SELECT latitude, longitude, display_name, source, matched
		FROM geocode_cache WHERE address_hash = ?`
	args := []any{cacheKey(address)}

	if c.ttlDays > 0 {
		query += ` AND cached_at > ?`
		args = append(args, time.Now().AddDate(0, 0, -c.ttlDays).Unix())
	}

	var r Result
	var matched int
	err := c.db.QueryRowContext(ctx, query, args...).
		Scan(&r.Latitude, &r.Longitude, &r.DisplayName, &r.Source, &matched)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "geocode: cache lookup")
	}
	r.Matched = matched != 0

	zap.L().Debug("geocode cache hit", zap.Bool("matched", r.Matched))
	return &r, nil
}

// Put stores a result (match or miss) for an address.
func (c *Cache) Put(ctx context.Context, address string, r *Result) error {
	matched := 0
	if r.Matched {
		matched = 1
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO geocode_cache (address_hash, latitude, longitude, display_name, source, matched, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (address_hash) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			display_name = excluded.display_name,
			source = excluded.source,
			matched = excluded.matched,
			cached_at = excluded.cached_at`,
		cacheKey(address), r.Latitude, r.Longitude, r.DisplayName, r.Source, matched, time.Now().Unix())
	if err != nil {
		return eris.Wrap(err, "geocode: cache store")
	}
	return nil
}
