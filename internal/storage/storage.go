// Package storage selects and opens the types.Store named by the configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/ficrammanifur/tofico-analyzer-backend/internal/memory"
	"github.com/ficrammanifur/tofico-analyzer-backend/internal/postgres"
	"github.com/ficrammanifur/tofico-analyzer-backend/internal/sqlite"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// Open validates cfg and opens the configured driver. SQLite uses the file
// sqlite.DefaultFileName inside cfg.DataDir.
func Open(ctx context.Context, cfg types.Config) (types.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	switch cfg.Driver {
	case types.DriverMemory:
		return memory.New(), nil
	case types.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return s, nil
	default:
		s, err := sqlite.OpenDir(ctx, cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	}
}
