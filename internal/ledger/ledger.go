// Package ledger persists the short URL obtained for each fragment across
// runs, keyed by fragment name.
//
// Preloading from the ledger lets a re-run repoint the short URLs it already
// published instead of minting fresh ones, including after a run that
// aborted partway through finalization.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS links (
	name       TEXT PRIMARY KEY,
	target     TEXT NOT NULL DEFAULT '',
	short_url  TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Row is one recorded fragment.
type Row struct {
	Name      string
	Target    string
	ShortURL  string
	Checksum  string
	UpdatedAt time.Time
}

// DB wraps a sql.DB with ledger operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite ledger and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ledger: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Lookup returns the stored short URL and content checksum for a fragment
// name. An unknown name returns empty strings, not an error.
func (db *DB) Lookup(name string) (shortURL, checksum string, err error) {
	err = db.conn.QueryRow(`SELECT short_url, checksum FROM links WHERE name = ?`, name).
		Scan(&shortURL, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("ledger: lookup %s: %w", name, err)
	}
	return shortURL, checksum, nil
}

// Record upserts a fragment's published short URL and content checksum.
func (db *DB) Record(name, target, shortURL, checksum string) error {
	_, err := db.conn.Exec(`
		INSERT INTO links (name, target, short_url, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			target     = excluded.target,
			short_url  = excluded.short_url,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, name, target, shortURL, checksum, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ledger: record %s: %w", name, err)
	}
	return nil
}

// All returns every recorded fragment, ordered by name.
func (db *DB) All() ([]Row, error) {
	rows, err := db.conn.Query(`SELECT name, target, short_url, checksum, updated_at FROM links ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ledger: all: %w", err)
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Name, &r.Target, &r.ShortURL, &r.Checksum, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ledger: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
