// Package sqlite implements repository.SnippetRepository on SQLite.
//
// CodeVault opens one private in-memory database per collection (NewMemory),
// so SQLite is used as a query engine, not as storage: closing the DB throws
// the data away, exactly like the plain in-memory store.
//
// DRIVER:
// modernc.org/sqlite is a pure-Go port of SQLite. No CGO, so the binary
// cross-compiles like any other Go program. It registers itself under the
// driver name "sqlite" through a blank import.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// DB is one snippet collection in SQLite.
type DB struct {
	conn *sql.DB
	now  Clock

	// idMu serialises id assignment; see Create.
	idMu   sync.Mutex
	lastID int64
}

// Option configures a DB.
type Option func(*DB)

// WithClock replaces time.Now.
func WithClock(c Clock) Option {
	return func(db *DB) { db.now = c }
}

// NewMemory opens a fresh, private in-memory database.
//
// Every connection to ":memory:" gets its own empty database, so the pool is
// pinned to a single connection that is never recycled.
func NewMemory(opts ...Option) (*DB, error) {
	return open(":memory:", opts...)
}

func open(dsn string, opts ...Option) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn, now: time.Now}
	for _, opt := range opts {
		opt(db)
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return db, nil
}

// Close releases the database, and with it every snippet.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema.
//
// id is the creation time in Unix milliseconds, so ORDER BY id DESC is most
// recent first. Timestamps are Unix nanoseconds; tags are a JSON array.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id          INTEGER PRIMARY KEY,
			title       TEXT    NOT NULL,
			description TEXT    NOT NULL DEFAULT '',
			code        TEXT    NOT NULL,
			language    TEXT    NOT NULL DEFAULT '',
			category    TEXT    NOT NULL DEFAULT '',
			tags        TEXT    NOT NULL DEFAULT '[]',
			created_at  INTEGER NOT NULL,
			updated_at  INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}
	return nil
}
