// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// We use modernc.org/sqlite — a pure Go translation of SQLite — so the
// binary builds without CGo and cross-compiles everywhere Go runs. The blank
// import below registers it with database/sql as the driver named "sqlite".
//
// sql.DB is a connection pool, not a single connection. We set WAL mode so
// reads don't block behind writes (this is a web server; concurrent requests
// hit the DB constantly) and turn foreign keys on for the posts → users
// reference.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements both repository
// interfaces. One struct for both keeps the schema and its queries in a
// single package; the service layer still only sees the interfaces.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath (":memory:" for tests) and runs
// migrations. Ping forces an immediate connection so a bad path surfaces
// here rather than on the first query.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows one writer at a time, and the pragmas below apply per
	// connection. A single pooled connection keeps both guarantees (and
	// keeps ":memory:" databases from splitting across connections).
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every start.
//
// user_posts is the explicit, ordered membership list of posts per user.
// It is maintained by AppendPost/RemovePost as two separate writes around
// post creation/deletion — see the service layer for the partial-failure
// contract.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			status        TEXT NOT NULL DEFAULT 'I am new!',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			content    TEXT NOT NULL,
			image_path TEXT NOT NULL DEFAULT '',
			creator_id TEXT NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
		CREATE INDEX IF NOT EXISTS idx_posts_creator_id ON posts(creator_id);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user_posts (
			user_id  TEXT NOT NULL REFERENCES users(id),
			post_id  TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (user_id, post_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating user_posts table: %w", err)
	}

	return nil
}
