// Package database provides SQL storage backends for airdrop records.
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/notedrop/notedrop/internal/airdrop"
	"github.com/notedrop/notedrop/internal/catalog"
)

// Store is a SQL-backed catalog.Source that can also be written by import.
// Both SQLite and PostgreSQL implementations satisfy this interface.
type Store interface {
	catalog.Source
	catalog.Pinger

	// Upsert inserts or replaces records by id and returns how many were written.
	Upsert(ctx context.Context, records []airdrop.Record) (int, error)

	// DatabaseType returns the name of the database backend ("SQLite" or "PostgreSQL").
	DatabaseType() string

	Close() error
}

// Open picks a backend by kind: "sqlite" takes a file path, "postgres" a
// connection URL.
func Open(kind, dsn string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres", "postgresql":
		return NewPostgres(dsn)
	default:
		return nil, fmt.Errorf("unknown database kind %q", kind)
	}
}
