// Package cache provides the optional cache-aside layer in front of the
// extraction pipeline: a SQLite-backed key-value store keyed by an encoding
// of the normalized URL with a fixed TTL. Backend unavailability must never
// fail a request, so callers treat every error here as a miss.
package cache

import (
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lepinkainen/link-forge/pkg/filesystem"
	"github.com/lepinkainen/link-forge/pkg/interfaces"
	"github.com/lepinkainen/link-forge/pkg/metadata"
)

// TTL is how long a cached extraction stays valid.
const TTL = 24 * time.Hour

// keyPrefix namespaces cache keys; the URL encoding after it is reversible.
const keyPrefix = "linkforge:v1:"

// DefaultDBFile is used when no explicit cache path is configured.
const DefaultDBFile = "linkforge-cache.db"

// Ensure Cache implements the shared storage contracts.
var _ interfaces.Database = (*Cache)(nil)
var _ interfaces.StatsProvider = (*Cache)(nil)
var _ interfaces.CleanupProvider = (*Cache)(nil)

// Key derives the cache key for a normalized URL.
func Key(normalizedURL string) string {
	return keyPrefix + base64.RawURLEncoding.EncodeToString([]byte(normalizedURL))
}

// Cache is a thread-safe SQLite key-value store for extraction results.
type Cache struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// New opens (creating if necessary) the cache database at dbPath.
func New(dbPath string) (*Cache, error) {
	if dbPath == "" {
		dbPath = DefaultDBFile
	}

	if err := filesystem.EnsureDirectoryExists(dbPath); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// WAL for concurrent readers/writers, bounded lock waits.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=memory",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping cache database: %w", err)
	}

	c := &Cache{db: db, dbPath: dbPath}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	slog.Info("preview cache initialized", "path", dbPath)
	return c, nil
}

func (c *Cache) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS preview_cache (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		expires_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_preview_cache_expires ON preview_cache(expires_at);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		err := c.db.Close()
		c.db = nil
		return err
	}
	return nil
}

// Available reports whether the backend can currently serve requests.
func (c *Cache) Available() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db != nil && c.db.Ping() == nil
}

// Get returns the cached metadata for key, or ok=false on a miss or
// expired entry. Errors mean the backend misbehaved; callers log and treat
// them as a miss.
func (c *Cache) Get(key string) (*metadata.Parsed, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, false, nil
	}

	var payload string
	err := c.db.QueryRow(
		`SELECT payload FROM preview_cache WHERE key = ? AND expires_at > CURRENT_TIMESTAMP`,
		key,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cache: %w", err)
	}

	var parsed metadata.Parsed
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached payload: %w", err)
	}
	return &parsed, true, nil
}

// Set stores metadata under key with the standard TTL, replacing any
// previous entry.
func (c *Cache) Set(key string, parsed *metadata.Parsed) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return fmt.Errorf("cache is closed")
	}

	payload, err := json.Marshal(parsed)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	// Stored in CURRENT_TIMESTAMP's format so SQL comparisons work.
	const sqliteTime = "2006-01-02 15:04:05"
	now := time.Now().UTC()
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO preview_cache (key, payload, fetched_at, expires_at) VALUES (?, ?, ?, ?)`,
		key, string(payload), now.Format(sqliteTime), now.Add(TTL).Format(sqliteTime),
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// CleanupExpired removes entries past their TTL.
func (c *Cache) CleanupExpired() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return fmt.Errorf("cache is closed")
	}

	result, err := c.db.Exec(`DELETE FROM preview_cache WHERE expires_at < CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired entries: %w", err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		slog.Debug("cleaned up expired cache entries", "count", n)
	}
	return nil
}

// GetStats returns entry counts for the cache command.
func (c *Cache) GetStats() (map[string]interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, fmt.Errorf("cache is closed")
	}

	stats := make(map[string]interface{})

	var total int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM preview_cache`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	stats["total_entries"] = total

	var expired int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM preview_cache WHERE expires_at < CURRENT_TIMESTAMP`).Scan(&expired); err != nil {
		return nil, fmt.Errorf("failed to count expired entries: %w", err)
	}
	stats["expired_entries"] = expired

	return stats, nil
}
