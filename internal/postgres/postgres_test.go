package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

func TestErrorClassifiers(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unique      bool
		unavailable bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, unique: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), unique: true},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}},
		{name: "connection exception", err: &pgconn.PgError{Code: "08006"}, unavailable: true},
		{name: "admin shutdown", err: &pgconn.PgError{Code: "57P01"}, unavailable: true},
		{name: "too many connections", err: &pgconn.PgError{Code: "53300"}, unavailable: true},
		{name: "plain error", err: errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, isUniqueViolation(tt.err))
			assert.Equal(t, tt.unavailable, isUnavailable(tt.err))
		})
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestOpenReportsDriverError(t *testing.T) {
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })
	sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("no driver") }

	_, err := Open(context.Background(), "postgres://localhost/tofico")
	assert.ErrorContains(t, err, "open postgres")
}

// TestRoundTrip runs against a live server when TOFICO_TEST_POSTGRES_DSN is set.
func TestRoundTrip(t *testing.T) {
	dsn := os.Getenv("TOFICO_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TOFICO_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	critID := fmt.Sprintf("pgtest-%d", os.Getpid())
	var locID int64
	require.NoError(t, s.Update(ctx, func(tx types.Tx) error {
		var err error
		locID, err = tx.InsertLocation(ctx, types.NewLocation{Name: "PG", Latitude: -6.175, Longitude: 106.8272})
		if err != nil {
			return err
		}
		if err := tx.InsertCriterion(ctx, types.Criterion{ID: critID, Name: "pg", Weight: 0.4, Type: types.CriterionBenefit}); err != nil {
			return err
		}
		return tx.UpsertEvaluation(ctx, types.Evaluation{LocationID: locID, CriterionID: critID, Value: 55})
	}))
	t.Cleanup(func() {
		_ = s.Update(ctx, func(tx types.Tx) error {
			_, _ = tx.DeleteEvaluationsForLocation(ctx, locID)
			_ = tx.DeleteLocation(ctx, locID)
			return tx.DeleteCriterion(ctx, critID)
		})
	})

	err = s.Update(ctx, func(tx types.Tx) error {
		return tx.InsertCriterion(ctx, types.Criterion{ID: critID, Name: "again", Weight: 0.1, Type: types.CriterionCost})
	})
	assert.ErrorIs(t, err, types.ErrDuplicateIdentity)

	require.NoError(t, s.View(ctx, func(tx types.ReadTx) error {
		loc, err := tx.GetLocation(ctx, locID)
		require.NoError(t, err)
		assert.InDelta(t, -6.175, loc.Latitude, 1e-9)

		c, err := tx.GetCriterion(ctx, critID)
		require.NoError(t, err)
		assert.InDelta(t, 0.4, c.Weight, 1e-9)

		e, err := tx.GetEvaluation(ctx, locID, critID)
		require.NoError(t, err)
		assert.Equal(t, 55, e.Value)
		return nil
	}))
}
