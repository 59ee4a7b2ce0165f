// Package sqlite opens the SQLite backend of the evaluation matrix store. The
// database is the single source of truth; the schema is applied from embedded
// migrations on every open.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/ficrammanifur/tofico-analyzer-backend/internal/sqlite/migrations"
	"github.com/ficrammanifur/tofico-analyzer-backend/internal/sqlstore"
)

// DefaultFileName is the database file created inside the data directory.
const DefaultFileName = "tofico.db"

const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Dialect describes SQLite to the shared SQL store. SQLite allows one writer
// at a time, so writes are serialized in process.
var Dialect = sqlstore.Dialect{
	Name:              "sqlite",
	IsUniqueViolation: isUniqueViolation,
	IsUnavailable:     isUnavailable,
	SerializeWrites:   true,
}

// Open opens (creating if needed) the database at path and applies
// migrations.
func Open(ctx context.Context, path string) (*sqlstore.Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dsn := cleanPath + "?" + pragmas + "&_pragma=journal_mode(WAL)"
	return open(ctx, dsn, 0)
}

// OpenDir opens DefaultFileName inside dataDir.
func OpenDir(ctx context.Context, dataDir string) (*sqlstore.Store, error) {
	if dataDir == "" {
		dataDir = "."
	}
	return Open(ctx, filepath.Join(dataDir, DefaultFileName))
}

// OpenMemory opens a private in-memory database. Each call gets its own
// database; it lives until the returned store is closed.
func OpenMemory(ctx context.Context) (*sqlstore.Store, error) {
	dsn := "file:tofico-" + uuid.NewString() + "?mode=memory&cache=shared&" + pragmas
	return open(ctx, dsn, 1)
}

func open(ctx context.Context, dsn string, maxConns int) (*sqlstore.Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := ApplyMigrations(ctx, db, migrations.FS, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlstore.New(db, Dialect), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

// isUnavailable reports errors where the database could not be reached or
// locked, as opposed to a failed statement. Extended codes carry the primary
// code in the low byte.
func isUnavailable(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3lib.SQLITE_CANTOPEN, sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return true
	}
	return false
}
