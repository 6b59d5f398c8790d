package indexer

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// FileCache stores one value per file path in a SQLite database, tagged with a
// hash of the file content. A lookup only hits when the content is unchanged.
type FileCache[T any] struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// HashContent returns the content hash FileCache entries are validated against
func HashContent(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// NewFileCache opens or creates the cache database at dbPath
func NewFileCache[T any](dbPath string) (*FileCache[T], error) {
	// Ensure parent directory exists for the DB file
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS files (
			file_path TEXT PRIMARY KEY,
			hash INTEGER NOT NULL,
			value BLOB NOT NULL
		);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return &FileCache[T]{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Get returns the value stored for filePath if it was stored with the same hash
func (c *FileCache[T]) Get(filePath string, hash uint64) (T, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	var storedHash int64
	var data []byte

	err := c.db.QueryRow("SELECT hash, value FROM files WHERE file_path = ?", filePath).Scan(&storedHash, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("failed to query file %s: %w", filePath, err)
	}

	if uint64(storedHash) != hash {
		return zero, false, nil
	}

	var item T
	if err := msgpack.Unmarshal(data, &item); err != nil {
		return zero, false, fmt.Errorf("failed to unmarshal item: %w", err)
	}

	return item, true, nil
}

// Put stores item for filePath, replacing any previous entry
func (c *FileCache[T]) Put(filePath string, hash uint64, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := msgpack.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = c.db.Exec(
		"INSERT INTO files (file_path, hash, value) VALUES (?, ?, ?) ON CONFLICT(file_path) DO UPDATE SET hash = excluded.hash, value = excluded.value",
		filePath, int64(hash), data,
	)
	if err != nil {
		return fmt.Errorf("failed to save file %s: %w", filePath, err)
	}

	return nil
}

// Remove deletes the entries of the given files
func (c *FileCache[T]) Remove(filePaths []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, filePath := range filePaths {
		if _, err := tx.Exec("DELETE FROM files WHERE file_path = ?", filePath); err != nil {
			return fmt.Errorf("failed to delete file %s: %w", filePath, err)
		}
	}

	return tx.Commit()
}

// Clear removes all entries
func (c *FileCache[T]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec("DELETE FROM files"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Close closes the database
func (c *FileCache[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}
