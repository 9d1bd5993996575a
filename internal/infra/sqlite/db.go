// Package sqlite persists the machine's audit journal in a local SQLite file.
// The journal is append-only audit data; it is never read back to restore a
// machine's ledger.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// FileName is the database file created inside the journal directory.
const FileName = "brew.db"

// DB wraps the SQLite connection.
type DB struct {
	mu     sync.Mutex
	db     *sql.DB
	path   string
	closed bool
}

// Open creates (if needed) and opens the journal database in dir.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	path := filepath.Join(dir, FileName)

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// A single writer keeps SQLite free of SQLITE_BUSY under WAL.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA synchronous=NORMAL`,
		`PRAGMA busy_timeout=5000`,
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	db := &DB{db: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

// Close closes the database. It is safe to call more than once.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.closed {
		return nil
	}
	db.closed = true
	return db.db.Close()
}

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Migrations returns the schema statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			started_at TEXT NOT NULL DEFAULT (datetime('now')),
			water      INTEGER NOT NULL,
			milk       INTEGER NOT NULL,
			beans      INTEGER NOT NULL,
			cups       INTEGER NOT NULL,
			money      INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS machine_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			kind       TEXT NOT NULL,
			command    TEXT NOT NULL DEFAULT '',
			beverage   TEXT NOT NULL DEFAULT '',
			resource   TEXT NOT NULL DEFAULT '',
			selection  INTEGER NOT NULL DEFAULT 0,
			amount     INTEGER NOT NULL DEFAULT 0,
			d_water    INTEGER NOT NULL DEFAULT 0,
			d_milk     INTEGER NOT NULL DEFAULT 0,
			d_beans    INTEGER NOT NULL DEFAULT 0,
			d_cups     INTEGER NOT NULL DEFAULT 0,
			d_money    INTEGER NOT NULL DEFAULT 0,
			water      INTEGER NOT NULL,
			milk       INTEGER NOT NULL,
			beans      INTEGER NOT NULL,
			cups       INTEGER NOT NULL,
			money      INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_session ON machine_events(session_id, id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind ON machine_events(kind)`,
	}
}
