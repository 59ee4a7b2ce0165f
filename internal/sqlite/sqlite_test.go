package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficrammanifur/tofico-analyzer-backend/internal/sqlstore"
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// setupStore opens a file-backed store in a temp dir and closes it on cleanup.
func setupStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := OpenDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	assert.Error(t, err)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)

	s, err := Open(ctx, path)
	require.NoError(t, err)
	var id int64
	require.NoError(t, s.Update(ctx, func(tx types.Tx) error {
		id, err = tx.InsertLocation(ctx, types.NewLocation{Name: "Pasar Minggu", Latitude: -6.28, Longitude: 106.84})
		return err
	}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.View(ctx, func(tx types.ReadTx) error {
		loc, err := tx.GetLocation(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Pasar Minggu", loc.Name)
		assert.InDelta(t, -6.28, loc.Latitude, 1e-9)
		return nil
	}))
}

func TestDuplicateCriterionIsClassified(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	c := types.Criterion{ID: "C1", Name: "Harga Sewa", Weight: 0.25, Type: types.CriterionCost}
	require.NoError(t, s.Update(ctx, func(tx types.Tx) error { return tx.InsertCriterion(ctx, c) }))

	err := s.Update(ctx, func(tx types.Tx) error { return tx.InsertCriterion(ctx, c) })
	assert.ErrorIs(t, err, types.ErrDuplicateIdentity)
}

func TestLocationIDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	insert := func() int64 {
		var id int64
		require.NoError(t, s.Update(ctx, func(tx types.Tx) error {
			var err error
			id, err = tx.InsertLocation(ctx, types.NewLocation{Name: "X"})
			return err
		}))
		return id
	}

	first := insert()
	require.NoError(t, s.Update(ctx, func(tx types.Tx) error { return tx.DeleteLocation(ctx, first) }))
	second := insert()
	assert.Greater(t, second, first)
}

func TestTextualCoordinatesAreCoerced(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	// Rows written by older tooling may carry coordinates as text or NULL.
	_, err := s.DB().ExecContext(ctx,
		`INSERT INTO locations (id, name, address, latitude, longitude) VALUES (40, 'Legacy', '', '-6.2000', '106.8166')`)
	require.NoError(t, err)
	_, err = s.DB().ExecContext(ctx,
		`INSERT INTO criteria (id, name, weight, type) VALUES ('C7', 'Legacy weight', '0.15', 'benefit')`)
	require.NoError(t, err)

	require.NoError(t, s.View(ctx, func(tx types.ReadTx) error {
		loc, err := tx.GetLocation(ctx, 40)
		require.NoError(t, err)
		assert.InDelta(t, -6.2, loc.Latitude, 1e-9)
		assert.InDelta(t, 106.8166, loc.Longitude, 1e-9)

		c, err := tx.GetCriterion(ctx, "C7")
		require.NoError(t, err)
		assert.InDelta(t, 0.15, c.Weight, 1e-9)
		return nil
	}))
}

func TestForeignKeysCascadeAsBackstop(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	var id int64
	require.NoError(t, s.Update(ctx, func(tx types.Tx) error {
		var err error
		id, err = tx.InsertLocation(ctx, types.NewLocation{Name: "A"})
		require.NoError(t, err)
		require.NoError(t, tx.InsertCriterion(ctx, types.Criterion{ID: "C1", Name: "Akses", Weight: 0.5, Type: types.CriterionBenefit}))
		return tx.UpsertEvaluation(ctx, types.Evaluation{LocationID: id, CriterionID: "C1", Value: 80})
	}))

	_, err := s.DB().ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	require.NoError(t, err)

	var n int
	require.NoError(t, s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluations`).Scan(&n))
	assert.Zero(t, n)
}

func TestUpsertWithMissingParentFails(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	err := s.Update(ctx, func(tx types.Tx) error {
		return tx.UpsertEvaluation(ctx, types.Evaluation{LocationID: 99, CriterionID: "nope", Value: 1})
	})
	assert.ErrorIs(t, err, types.ErrStoreFailure)
}

func TestApplyMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	fsys := fstest.MapFS{
		"002_extra.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE extra (id INTEGER);\n-- +migrate Down\nDROP TABLE extra;\n")},
		"README.md":     {Data: []byte("ignored")},
	}
	require.NoError(t, ApplyMigrations(ctx, s.DB(), fsys, "."))
	require.NoError(t, ApplyMigrations(ctx, s.DB(), fsys, "."))

	var n int
	require.NoError(t, s.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_migrations WHERE name = '002_extra.sql'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestExtractUpMigration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "CREATE TABLE t (id INTEGER);", want: "CREATE TABLE t (id INTEGER);"},
		{name: "up only", content: "-- +migrate Up\nSELECT 1;", want: "\nSELECT 1;"},
		{name: "up and down", content: "-- +migrate Up\nSELECT 1;\n-- +migrate Down\nSELECT 2;", want: "\nSELECT 1;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractUpMigration(tt.content))
		})
	}
}

func TestOpenMemoryIsPrivate(t *testing.T) {
	ctx := context.Background()
	a, err := OpenMemory(ctx)
	require.NoError(t, err)
	defer a.Close()
	b, err := OpenMemory(ctx)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Update(ctx, func(tx types.Tx) error {
		_, err := tx.InsertLocation(ctx, types.NewLocation{Name: "only in a"})
		return err
	}))
	require.NoError(t, b.View(ctx, func(tx types.ReadTx) error {
		locs, err := tx.ListLocations(ctx)
		require.NoError(t, err)
		assert.Empty(t, locs)
		return nil
	}))
}
