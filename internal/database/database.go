package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"

	"github.com/graphmemory/kgstore/internal/logging"
)

var log = logging.GetLogger("database")

// Database represents a connection to the SQLite-backed graph store, plus
// the advisory lock that protects the file against concurrent processes.
type Database struct {
	db   *sql.DB
	lock *flock.Flock
	path string
	mu   sync.RWMutex
}

// Open opens a database connection, acquires the advisory lock on the
// database file, and initializes the schema if needed. The returned
// Database must eventually be passed to Close, even on a later error path,
// to release the lock.
func Open(path string) (*Database, error) {
	log.Info("opening database", "path", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Error("failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	fl := flock.New(path + ".lock")
	locked, err := fl.TryLock()
	if err != nil {
		log.Error("failed to acquire database lock", "error", err)
		return nil, fmt.Errorf("failed to acquire database lock: %w", err)
	}
	if !locked {
		log.Error("database is locked by another process", "path", path)
		return nil, fmt.Errorf("database %s is locked by another process", path)
	}

	// The _foreign_keys=on parameter enables FK constraints; WAL journaling
	// keeps readers from blocking on the single writer.
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		fl.Unlock()
		log.Error("failed to open database", "error", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		fl.Unlock()
		log.Error("failed to ping database", "error", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{
		db:   db,
		lock: fl,
		path: path,
	}

	if err := database.InitSchema(); err != nil {
		database.Close()
		return nil, err
	}

	log.Info("database connection established", "path", path)
	return database, nil
}

// InitSchema initializes the database schema. It is idempotent and safe to
// call on every Open.
func (d *Database) InitSchema() error {
	log.Info("initializing database schema", "version", SchemaVersion)

	d.mu.Lock()
	defer d.mu.Unlock()

	var tableName string
	err := d.db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='nodes'
		LIMIT 1
	`).Scan(&tableName)
	if err == nil && tableName != "" {
		log.Info("schema already initialized")
		return nil
	}
	log.Debug("schema not yet initialized", "check_err", err)

	tx, err := d.db.Begin()
	if err != nil {
		log.Error("failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Debug("creating core schema")
	if _, err := tx.Exec(CoreSchema); err != nil {
		log.Error("failed to create core schema", "error", err)
		return fmt.Errorf("failed to create core schema: %w", err)
	}

	// FTS5 is optional: a build without the sqlite_fts5 tag still gets a
	// working graph store, just without full-text search.
	log.Debug("creating FTS5 schema")
	if _, err := tx.Exec(FTS5Schema); err != nil {
		log.Warn("failed to create FTS5 schema (skipping)", "error", err)
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO schema_version (version, applied_at)
		VALUES (?, CURRENT_TIMESTAMP)
	`, SchemaVersion)
	if err != nil {
		log.Error("failed to record schema version", "error", err)
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit schema", "error", err)
		return fmt.Errorf("failed to commit schema: %w", err)
	}

	log.Info("database schema initialized successfully", "version", SchemaVersion)
	return nil
}

// Close closes the database connection and releases the advisory lock.
func (d *Database) Close() error {
	log.Info("closing database connection")
	d.mu.Lock()
	defer d.mu.Unlock()

	var closeErr error
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
			closeErr = err
		} else {
			log.Debug("database connection closed")
		}
	}

	if d.lock != nil {
		if err := d.lock.Unlock(); err != nil {
			log.Error("failed to release database lock", "error", err)
			if closeErr == nil {
				closeErr = err
			}
		}
	}

	return closeErr
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.path
}

// Exec executes a SQL statement.
func (d *Database) Exec(query string, args ...interface{}) (sql.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db.Exec(query, args...)
}

// Query executes a SQL query and returns rows.
func (d *Database) Query(query string, args ...interface{}) (*sql.Rows, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db.Query(query, args...)
}

// QueryRow executes a SQL query and returns a single row.
func (d *Database) QueryRow(query string, args ...interface{}) *sql.Row {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db.QueryRow(query, args...)
}

// Begin starts a new transaction.
func (d *Database) Begin() (*sql.Tx, error) {
	return d.db.Begin()
}

// GetSchemaVersion returns the current schema version.
func (d *Database) GetSchemaVersion() (int, error) {
	var version int
	err := d.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// TableExists checks if a table exists in the database.
func (d *Database) TableExists(name string) (bool, error) {
	var count int
	err := d.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name=?
	`, name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Stats reports summary counts across the graph store.
type Stats struct {
	Path             string
	SchemaVersion    int
	NodeCount        int
	EdgeCount        int
	ObservationCount int
	AliasCount       int
	FileSizeBytes    int64
}

// GetStats returns database statistics, used by the CLI's doctor command.
func (d *Database) GetStats() (*Stats, error) {
	stats := &Stats{Path: d.path}

	if version, err := d.GetSchemaVersion(); err == nil {
		stats.SchemaVersion = version
	}

	d.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&stats.NodeCount)
	d.QueryRow("SELECT COUNT(*) FROM edges").Scan(&stats.EdgeCount)
	d.QueryRow("SELECT COUNT(*) FROM observations").Scan(&stats.ObservationCount)
	d.QueryRow("SELECT COUNT(*) FROM aliases").Scan(&stats.AliasCount)

	if info, err := os.Stat(d.path); err == nil {
		stats.FileSizeBytes = info.Size()
	}

	return stats, nil
}
