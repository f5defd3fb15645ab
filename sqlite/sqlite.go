// Package sqlite provides the relational store the scraped corpora are
// aggregated into, plus the aggregation job itself.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write
	// performance during the large aggregation inserts.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Enable foreign key constraints
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// createSchema creates the database tables if they don't exist.
//
// Natural composite keys throughout; aggregation relies on INSERT OR
// IGNORE against them for cross-run idempotence. The cfr_pdf primary key
// column order (title, part, section, granule_id) is a persisted contract:
// the implied index serves regulation-first join queries.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS cfr_title (
			title INTEGER PRIMARY KEY,
			description TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS cfr_part (
			title INTEGER NOT NULL,
			part TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (title, part)
		);

		CREATE TABLE IF NOT EXISTS cfr_section (
			title INTEGER NOT NULL,
			chapter TEXT NOT NULL,
			part INTEGER NOT NULL,
			section INTEGER NOT NULL,
			num_words INTEGER NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (title, part, section)
		);

		CREATE TABLE IF NOT EXISTS cfr_agency (
			agency TEXT NOT NULL,
			title INTEGER NOT NULL,
			chapter TEXT NOT NULL,
			PRIMARY KEY (agency, title, chapter)
		);

		CREATE TABLE IF NOT EXISTS court_opinion_pdf (
			package_id TEXT NOT NULL,
			granule_id TEXT PRIMARY KEY,
			case_title TEXT NOT NULL DEFAULT '',
			date_opinion_issued TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS cfr_pdf (
			title INTEGER NOT NULL,
			part INTEGER NOT NULL,
			section INTEGER NOT NULL,
			granule_id TEXT NOT NULL REFERENCES court_opinion_pdf(granule_id),
			PRIMARY KEY (title, part, section, granule_id)
		);
	`

	_, err := db.db.Exec(schema)
	return err
}
