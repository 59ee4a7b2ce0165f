package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

func TestUpdateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()

	boom := errors.New("boom")
	err := s.Update(ctx, func(tx types.Tx) error {
		_, err := tx.InsertLocation(ctx, types.NewLocation{Name: "Gudang Utara"})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, s.View(ctx, func(tx types.ReadTx) error {
		locs, err := tx.ListLocations(ctx)
		require.NoError(t, err)
		assert.Empty(t, locs)
		return nil
	}))
}

func TestLocationIDsAreNotReused(t *testing.T) {
	ctx := context.Background()
	s := New()

	var first, second int64
	require.NoError(t, s.Update(ctx, func(tx types.Tx) error {
		var err error
		first, err = tx.InsertLocation(ctx, types.NewLocation{Name: "A"})
		require.NoError(t, err)
		return tx.DeleteLocation(ctx, first)
	}))
	require.NoError(t, s.Update(ctx, func(tx types.Tx) error {
		var err error
		second, err = tx.InsertLocation(ctx, types.NewLocation{Name: "B"})
		return err
	}))

	assert.Greater(t, second, first)
}

func TestInsertCriterionDuplicate(t *testing.T) {
	ctx := context.Background()
	s := New()

	c := types.Criterion{ID: "C1", Name: "Akses", Weight: 0.3, Type: types.CriterionBenefit}
	require.NoError(t, s.Update(ctx, func(tx types.Tx) error { return tx.InsertCriterion(ctx, c) }))

	err := s.Update(ctx, func(tx types.Tx) error { return tx.InsertCriterion(ctx, c) })
	assert.ErrorIs(t, err, types.ErrDuplicateIdentity)
}

func TestListEvaluationsSkipsOrphans(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Update(ctx, func(tx types.Tx) error {
		id, err := tx.InsertLocation(ctx, types.NewLocation{Name: "A"})
		require.NoError(t, err)
		require.NoError(t, tx.InsertCriterion(ctx, types.Criterion{ID: "C1", Name: "Akses", Weight: 0.5, Type: types.CriterionCost}))
		require.NoError(t, tx.UpsertEvaluation(ctx, types.Evaluation{LocationID: id, CriterionID: "C1", Value: 40}))
		// A cell whose criterion does not exist is never joined.
		return tx.UpsertEvaluation(ctx, types.Evaluation{LocationID: id, CriterionID: "C9", Value: 10})
	}))

	require.NoError(t, s.View(ctx, func(tx types.ReadTx) error {
		recs, err := tx.ListEvaluations(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "C1", recs[0].CriterionID)
		assert.Equal(t, types.CriterionCost, recs[0].CriterionType)
		return nil
	}))
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Ping(ctx), types.ErrStoreUnavailable)
	err := s.View(ctx, func(types.ReadTx) error { return nil })
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
}
