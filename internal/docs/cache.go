// ABOUTME: SQLite cache of the last good document fetch using modernc.org/sqlite
// ABOUTME: Lets the bot start when the document source is unreachable

package docs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache persists the document set so a failed fetch at startup can fall
// back to the last snapshot.
type Cache struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenCache opens (or creates) the cache database at the given path.
// Parent directories are created if needed.
func OpenCache(path string) (*Cache, error) {
	logger := slog.Default().With("component", "docs-cache")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			fetched_at DATETIME NOT NULL
		);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("document cache opened", "path", path)
	return &Cache{db: db, logger: logger}, nil
}

// Save replaces the cached snapshot with the given document set.
func (c *Cache) Save(ctx context.Context, fetched map[string]string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	now := time.Now()
	for name, content := range fetched {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO documents (name, content, fetched_at) VALUES (?, ?, ?)",
			name, content, now)
		if err != nil {
			return fmt.Errorf("caching %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cache: %w", err)
	}

	c.logger.Debug("document snapshot cached", "count", len(fetched))
	return nil
}

// Load returns the cached snapshot. An empty map means no snapshot exists.
func (c *Cache) Load(ctx context.Context) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT name, content FROM documents")
	if err != nil {
		return nil, fmt.Errorf("querying cache: %w", err)
	}
	defer rows.Close()

	cached := make(map[string]string)
	for rows.Next() {
		var name, content string
		if err := rows.Scan(&name, &content); err != nil {
			return nil, fmt.Errorf("scanning cached document: %w", err)
		}
		cached[name] = content
	}
	return cached, rows.Err()
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
