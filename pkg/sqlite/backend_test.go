package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/matrix"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

func TestOpenDirPersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := OpenDir(ctx, dir)
	require.NoError(t, err)
	svc, err := matrix.New(store)
	require.NoError(t, err)
	_, err = svc.Locations.Create(ctx, types.NewLocation{Name: "Kemang"})
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.FileExists(t, filepath.Join(dir, DefaultFileName))

	store, err = Open(ctx, filepath.Join(dir, DefaultFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	svc, err = matrix.New(store)
	require.NoError(t, err)
	locs, err := svc.Locations.List(ctx)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "Kemang", locs[0].Name)
}

func TestOpenMemory(t *testing.T) {
	store, err := OpenMemory(context.Background())
	require.NoError(t, err)
	defer store.Close()
	assert.NoError(t, store.Ping(context.Background()))
}
