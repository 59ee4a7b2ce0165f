// Package sqlite provides the public API for the SQLite evaluation matrix
// store. It exposes the factories while keeping the implementation
// internal.
//
// Example:
//
//	store, err := sqlite.Open(ctx, "/var/lib/tofico/tofico.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	svc, err := matrix.New(store)
package sqlite

import (
	"context"

	"github.com/ficrammanifur/tofico-analyzer-backend/internal/sqlite"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// DefaultFileName is the database file OpenDir uses inside a data directory.
const DefaultFileName = sqlite.DefaultFileName

// Open opens (creating if needed) the database file at path and applies the
// schema migrations.
func Open(ctx context.Context, path string) (types.Store, error) {
	s, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OpenDir opens DefaultFileName inside dataDir.
func OpenDir(ctx context.Context, dataDir string) (types.Store, error) {
	s, err := sqlite.OpenDir(ctx, dataDir)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OpenMemory opens a private in-memory database that lives until the store
// is closed.
func OpenMemory(ctx context.Context) (types.Store, error) {
	s, err := sqlite.OpenMemory(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}
