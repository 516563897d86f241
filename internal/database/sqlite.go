package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps records in a local SQLite file.
type SQLiteStore struct {
	*sqlStore
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Enable WAL mode for better concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	db := &SQLiteStore{sqlStore: &sqlStore{conn: conn}}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// DatabaseType returns the database backend name.
func (db *SQLiteStore) DatabaseType() string {
	return "SQLite"
}

func (db *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS airdrops (
		id TEXT PRIMARY KEY,
		name TEXT,
		subtitle TEXT,
		description TEXT,
		chain TEXT,
		stage TEXT,
		cost REAL DEFAULT 0,
		created_at DATETIME,
		image_cover TEXT,
		image_url TEXT,
		proj_img TEXT,
		requirements TEXT,
		how_to_steps TEXT,
		backers TEXT,
		comment TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_airdrops_created_at ON airdrops(created_at DESC);
	`
	_, err := db.conn.Exec(schema)
	return err
}
