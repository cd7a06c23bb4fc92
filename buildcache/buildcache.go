// Package buildcache keeps compiled page modules in a SQLite database keyed
// by a digest of everything that influenced them.
//
// Compilation is deterministic, so a module compiled from the same document
// with the same options can be served from the cache unchanged.
package buildcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// codegenVersion is bumped when the emitted module format changes, so stale
// entries stop matching.
const codegenVersion = "v1"

const schema = `CREATE TABLE IF NOT EXISTS modules (
	key        TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	created_at INTEGER NOT NULL
)`

// Cache is an open build cache.
type Cache struct {
	db   *sql.DB
	path string
}

// Open opens or creates the cache database at path. Parent directories are
// created as needed.
func Open(ctx context.Context, path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	// a single connection serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache %s: %w", path, err)
	}
	return &Cache{db: db, path: path}, nil
}

// Path returns the database location.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the module source stored under key. The boolean is false on a
// cache miss.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	var source string
	err := c.db.QueryRowContext(ctx, `SELECT source FROM modules WHERE key = ?`, key).Scan(&source)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return source, true, nil
}

// Put stores source under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key, source string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO modules (key, source, created_at) VALUES (?, ?, ?)`,
		key, source, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// Len returns the number of cached modules.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM modules`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}

// Clean removes every cached module.
func (c *Cache) Clean(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM modules`); err != nil {
		return fmt.Errorf("cleaning cache: %w", err)
	}
	return nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key derives a cache key from the compiler input and any number of salts
// (typically the serialized options). Salts are separated so that ("ab", "c")
// and ("a", "bc") differ.
func Key(input []byte, salts ...string) string {
	h := sha256.New()
	h.Write(input)
	for _, salt := range salts {
		h.Write([]byte("\x00"))
		h.Write([]byte(salt))
	}
	h.Write([]byte("\x00"))
	h.Write([]byte(codegenVersion))
	return hex.EncodeToString(h.Sum(nil))
}
