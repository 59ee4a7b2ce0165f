// Package postgres opens the Postgres backend of the evaluation matrix store
// through the pgx database/sql driver. The schema is applied idempotently on
// open.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/ficrammanifur/tofico-analyzer-backend/internal/sqlstore"
)

const driverName = "pgx"

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Dialect describes Postgres to the shared SQL store.
var Dialect = sqlstore.Dialect{
	Name:               "postgres",
	DollarPlaceholders: true,
	IsUniqueViolation:  isUniqueViolation,
	IsUnavailable:      isUnavailable,
	ReadOnlyViews:      true,
}

// schema is applied statement by statement; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		latitude NUMERIC NOT NULL DEFAULT 0,
		longitude NUMERIC NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS criteria (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		weight NUMERIC NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('benefit', 'cost'))
	)`,
	`CREATE TABLE IF NOT EXISTS evaluations (
		location_id BIGINT NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		criterion_id TEXT NOT NULL REFERENCES criteria(id) ON DELETE CASCADE,
		value INTEGER NOT NULL,
		PRIMARY KEY (location_id, criterion_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_locations_name ON locations(name)`,
	`CREATE INDEX IF NOT EXISTS idx_criteria_name ON criteria(name)`,
	`CREATE INDEX IF NOT EXISTS idx_evaluations_criterion ON evaluations(criterion_id)`,
}

// Open connects to dsn, verifies the connection and applies the schema.
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	openMu.Lock()
	db, err := sqlOpen(driverName, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := applySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sqlstore.New(db, Dialect), nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isUnavailable reports connection failures, timeouts, server shutdown and
// connection exceptions (SQLSTATE class 08).
func isUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"):
			return true
		case pgErr.Code == "57P01", pgErr.Code == "57P03", pgErr.Code == "53300":
			return true
		}
	}
	return false
}
