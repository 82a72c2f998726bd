package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the database file created in the data directory.
const FileName = "wikigraph.db"

// CrawlDB stores fetched pages and graph snapshots in one SQLite file.
// It is safe for concurrent use.
type CrawlDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures Open.
type Options struct {
	// CreateIfNotExists creates the directory and database file when
	// missing. Otherwise a missing database is an error.
	CreateIfNotExists bool

	// EnableWAL switches the database to write-ahead logging, so that
	// history queries do not block a running crawl.
	EnableWAL bool
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens the database in dbDir.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?mode=rwc"
	} else if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		}
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return cdb, nil
}

// Path returns the database file path.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// Close closes the database.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Every page fetched from the wiki, latest response per URL.
	CREATE TABLE IF NOT EXISTS fetches (
		url TEXT PRIMARY KEY,
		status_code INTEGER NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		body BLOB,
		hash TEXT NOT NULL DEFAULT '',
		fetched_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_fetched_at ON fetches(fetched_at);

	-- Graphs saved at the end of crawls.
	CREATE TABLE IF NOT EXISTS graph_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root_node TEXT NOT NULL,
		root_category_url TEXT NOT NULL,
		nodes INTEGER NOT NULL,
		edges INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		cycles INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		graph_json BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_root ON graph_snapshots(root_node);
	`
	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// timestampFormat is how timestamps are stored. Fixed-width UTC text
// sorts chronologically.
const timestampFormat = "2006-01-02T15:04:05.000000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

// timestampFormats are the layouts parseTimestamp accepts, most specific
// first. Rows written by hand through the sqlite3 shell use the SQLite
// default layout.
var timestampFormats = []string{
	timestampFormat,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// parseTimestamp parses a stored timestamp, returning the zero time when
// no layout matches.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
