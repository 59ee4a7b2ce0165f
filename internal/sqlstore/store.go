// Package sqlstore implements types.Store on top of database/sql. The SQLite
// and Postgres backends share it and differ only in their Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// Compile-time interface checks.
var (
	_ types.Store  = (*Store)(nil)
	_ types.Tx     = (*writeTx)(nil)
	_ types.ReadTx = (*readTx)(nil)
)

// Dialect captures what differs between engines.
type Dialect struct {
	// Name is used in log and error messages.
	Name string

	// DollarPlaceholders rewrites ? to $1, $2, ... before execution.
	DollarPlaceholders bool

	// IsUniqueViolation reports a primary key or unique constraint failure.
	IsUniqueViolation func(error) bool

	// IsUnavailable reports errors caused by a lost or refused connection.
	IsUnavailable func(error) bool

	// SerializeWrites guards transactions with a process-wide RWMutex, for
	// engines that allow a single writer.
	SerializeWrites bool

	// ReadOnlyViews begins View transactions with ReadOnly set.
	ReadOnlyViews bool
}

// Store is a database/sql backed types.Store.
type Store struct {
	mu      sync.RWMutex
	db      *sql.DB
	dialect Dialect
}

// New wraps an open, migrated database.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB exposes the underlying handle for migrations and tests.
func (s *Store) DB() *sql.DB { return s.db }

// Update runs fn in a read-write transaction.
func (s *Store) Update(ctx context.Context, fn func(types.Tx) error) error {
	if s.dialect.SerializeWrites {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.classify("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(&writeTx{readTx{s: s, tx: tx}}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return s.classify("commit transaction", err)
	}
	return nil
}

// View runs fn in a read transaction.
func (s *Store) View(ctx context.Context, fn func(types.ReadTx) error) error {
	if s.dialect.SerializeWrites {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: s.dialect.ReadOnlyViews})
	if err != nil {
		return s.classify("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(&readTx{s: s, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return s.classify("commit transaction", err)
	}
	return nil
}

// Ping checks that the engine answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return s.classifyPing(err)
	}
	return nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) classifyPing(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("ping: %w", err)
	}
	// Any ping failure means the engine cannot serve requests.
	return &types.StoreError{Op: "ping", Unavailable: true, Err: err}
}

// classify turns an engine error into the store error taxonomy.
func (s *Store) classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return &types.StoreError{Op: op, Unavailable: true, Err: err}
	case s.dialect.IsUnavailable != nil && s.dialect.IsUnavailable(err):
		return &types.StoreError{Op: op, Unavailable: true, Err: err}
	default:
		return &types.StoreError{Op: op, Err: err}
	}
}

func (s *Store) isUnique(err error) bool {
	return s.dialect.IsUniqueViolation != nil && s.dialect.IsUniqueViolation(err)
}

// rebind rewrites ? placeholders for dialects that number them. Queries in
// this package never contain a literal question mark.
func (s *Store) rebind(query string) string {
	if !s.dialect.DollarPlaceholders {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func locationKey(id int64) string { return strconv.FormatInt(id, 10) }

func cellKey(locationID int64, criterionID string) string {
	return locationKey(locationID) + "/" + criterionID
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
