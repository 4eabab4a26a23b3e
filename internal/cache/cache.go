// Package cache provides a SQLite-backed TTL cache for upstream responses.
//
// Each data class gets its own table so TTLs and invalidation stay
// independent. The DB is passed into the pipeline explicitly rather than held
// as package state, so tests can point it at a throwaway file.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// TTLs per data class. Showtimes and ticketing availability change far more
// often than the static site redeploys, hence the much shorter schedule TTL.
const (
	SiteHashTTL    = 24 * time.Hour
	StaticQueryTTL = 48 * time.Hour
	ScheduleTTL    = time.Hour
)

// DB manages the SQLite database connection for caching.
type DB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// Open creates a DB at dbPath and initializes all cache tables.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), closeErr)
	}

	c := &DB{db: db, path: dbPath}
	for _, schema := range AllCacheSchemas {
		if err := c.createTable(schema); err != nil {
			closeErr := db.Close()
			return nil, errors.Join(fmt.Errorf("failed to create cache table: %w", err), closeErr)
		}
	}

	return c, nil
}

func (c *DB) createTable(schema string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (c *DB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get retrieves a cached value from the specified table. Entries older than
// ttl read as absent even though the row still exists.
// Returns the cached data, when it was stored, and whether it was found.
func (c *DB) Get(tableName, key string, ttl time.Duration) (string, time.Time, bool, error) {
	if err := validateTableName(tableName); err != nil {
		return "", time.Time{}, false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	query := fmt.Sprintf(`
		SELECT data, cached_at
		FROM %s
		WHERE cache_key = ?
	`, tableName)

	var data string
	var cachedAt time.Time
	err := c.db.QueryRow(query, key).Scan(&data, &cachedAt)
	if err == sql.ErrNoRows {
		return "", time.Time{}, false, nil
	}
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("failed to query cache: %w", err)
	}

	age := time.Now().UTC().Sub(cachedAt)
	if age > ttl {
		slog.Debug("Cache expired", "table", tableName, "key", key, "age", age)
		return "", time.Time{}, false, nil
	}

	return data, cachedAt, true, nil
}

// Set stores a value in the cache and returns the stored-at timestamp, so
// callers can report freshness without a read-back round trip.
func (c *DB) Set(tableName, key, data string) (time.Time, error) {
	if err := validateTableName(tableName); err != nil {
		return time.Time{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC()
	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (cache_key, data, cached_at)
		VALUES (?, ?, ?)
	`, tableName)

	_, err := c.db.Exec(query, key, data, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to set cache: %w", err)
	}

	return now, nil
}

// Invalidate deletes all entries from the specified cache table.
// Returns the number of rows deleted.
func (c *DB) Invalidate(tableName string) (int64, error) {
	if err := validateTableName(tableName); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	query := fmt.Sprintf("DELETE FROM %s", tableName)
	result, err := c.db.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	slog.Debug("Cache table cleared", "table", tableName, "rows_deleted", rowsAffected)
	return rowsAffected, nil
}

// ClearExpired removes expired cache entries from the specified table.
func (c *DB) ClearExpired(tableName string, ttl time.Duration) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().UTC().Add(-ttl)
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE cached_at < ?
	`, tableName)

	result, err := c.db.Exec(query, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clear expired cache: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		slog.Info("Cleared expired cache entries", "table", tableName, "count", rows)
	}

	return nil
}

// validateTableName checks if the table name is in the whitelist
// to prevent SQL injection attacks.
func validateTableName(tableName string) error {
	if !ValidCacheTableNames[tableName] {
		return fmt.Errorf("invalid cache table name: %s", tableName)
	}
	return nil
}
