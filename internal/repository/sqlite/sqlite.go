// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// Three tables back the app: users, items and relations. relations has two
// foreign keys into items, one per endpoint.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code; no C compiler needed, works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/sakif/itemgraph/internal/apperror"
	"github.com/sakif/itemgraph/internal/repository"

	// BLANK IMPORT:
	// The underscore import `_ "modernc.org/sqlite"` is a "side-effect only" import.
	// It doesn't give us any symbols to use directly. Instead, the sqlite package's
	// init() function registers itself with database/sql as a driver named "sqlite".
	// After this import, sql.Open("sqlite", ...) knows how to talk to SQLite.
	_ "modernc.org/sqlite"
)

// compile-time check that *DB implements the full store contract
var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and provides repository methods.
//
// WHY WRAP sql.DB IN A STRUCT?
// 1. We can attach methods to it (CreateItem, ListRelations, etc.)
// 2. It implements repository.Store, so services never see SQL
// 3. We control the lifecycle (New creates it, Close destroys it)
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and creates the tables if they are missing.
//
// dbPath examples:
//   - "data/itemgraph.db"  → file-based database (persistent)
//   - ":memory:"           → in-memory database, lost on close
//
// PER-CONNECTION PRAGMAS:
// sql.DB is a pool, and SQLite pragmas like foreign_keys apply to ONE connection.
// Running `PRAGMA foreign_keys=ON` once with Exec would only switch it on for
// whichever connection happened to run it. modernc.org/sqlite accepts
// `_pragma=` parameters in the DSN and applies them to every new connection.
//
// A failed ping is reported as apperror.ErrUnavailable: the file could not be
// opened or created, so nothing in the app can work.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" is its own empty database.
	// Pin the pool to one connection so all queries see the same tables.
	if isMemory(dbPath) {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", apperror.Unavailable(err))
	}

	// WAL (Write-Ahead Logging) mode lets readers run while a write is happening.
	// journal_mode is stored in the database file, so setting it once is enough.
	if !isMemory(dbPath) {
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
		}
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

func isMemory(dbPath string) bool {
	return dbPath == ":memory:" || strings.HasPrefix(dbPath, "file::memory:")
}

// dsn appends the connection pragmas to the path.
//
// _txlock=immediate makes every BeginTx issue BEGIN IMMEDIATE. CreateRelation
// reads before it writes; a deferred transaction would have to upgrade its
// read lock, and under WAL that upgrade fails with SQLITE_BUSY at once if
// another connection committed in between. busy_timeout never gets a chance
// to help. Taking the write lock at BEGIN means writers queue on busy_timeout
// instead.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

// Close closes the database connection pool.
//
// ALWAYS DEFER CLOSE:
// Wherever you call New(), immediately defer Close():
//
//	db, err := sqlite.New("data/itemgraph.db")
//	if err != nil { ... }
//	defer db.Close()
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema.
//
// CREATE TABLE IF NOT EXISTS is safe to run on every start; it won't error
// if the table exists. The app never updates or deletes rows, so there is no
// ON DELETE behaviour to declare on the foreign keys.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			username   TEXT NOT NULL,
			role       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating items table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS relations (
			id         TEXT PRIMARY KEY,
			source_id  TEXT NOT NULL REFERENCES items(id),
			target_id  TEXT NOT NULL REFERENCES items(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_relations_source_id ON relations(source_id);
		CREATE INDEX IF NOT EXISTS idx_relations_target_id ON relations(target_id);
	`)
	if err != nil {
		return fmt.Errorf("creating relations table: %w", err)
	}

	return nil
}
