package matrix

import (
	"context"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// EvaluationMatrix is the sole writer of evaluation cells.
type EvaluationMatrix struct {
	svc *Service
}

// Upsert sets the score of (locationID, criterionID), replacing any previous
// value. Both parents must exist; the returned *types.NotFoundError names the
// one that does not.
func (m *EvaluationMatrix) Upsert(ctx context.Context, locationID int64, criterionID string, value int) (types.Evaluation, error) {
	var out types.Evaluation
	err := m.svc.run(ctx, "evaluation.upsert", func(ctx context.Context) error {
		if err := validateValue(value, m.svc.limits); err != nil {
			return err
		}
		return m.svc.store.Update(ctx, func(tx types.Tx) error {
			if _, err := tx.GetLocation(ctx, locationID); err != nil {
				return err
			}
			if _, err := tx.GetCriterion(ctx, criterionID); err != nil {
				return err
			}
			if err := tx.UpsertEvaluation(ctx, types.Evaluation{
				LocationID:  locationID,
				CriterionID: criterionID,
				Value:       value,
			}); err != nil {
				return err
			}
			var err error
			out, err = tx.GetEvaluation(ctx, locationID, criterionID)
			return err
		})
	})
	if err != nil {
		return types.Evaluation{}, err
	}
	m.svc.logger.DebugContext(ctx, "evaluation set",
		"location_id", locationID, "criterion_id", criterionID, "value", value)
	return out, nil
}

// Remove deletes one cell. A missing cell fails with ErrNotFound.
func (m *EvaluationMatrix) Remove(ctx context.Context, locationID int64, criterionID string) error {
	err := m.svc.run(ctx, "evaluation.remove", func(ctx context.Context) error {
		return m.svc.store.Update(ctx, func(tx types.Tx) error {
			return tx.DeleteEvaluation(ctx, locationID, criterionID)
		})
	})
	if err != nil {
		return err
	}
	m.svc.logger.DebugContext(ctx, "evaluation removed", "location_id", locationID, "criterion_id", criterionID)
	return nil
}

// ListAll returns every cell with its parents' names, ordered by location name
// then criterion name.
func (m *EvaluationMatrix) ListAll(ctx context.Context) ([]types.EvaluationRecord, error) {
	var out []types.EvaluationRecord
	err := m.svc.run(ctx, "evaluation.list", func(ctx context.Context) error {
		return m.svc.store.View(ctx, func(tx types.ReadTx) error {
			var err error
			out, err = tx.ListEvaluations(ctx)
			return err
		})
	})
	return out, err
}

// ForLocation returns the scores of one location keyed by criterion ID. A
// location without scores yields an empty map; an unknown location fails with
// ErrNotFound.
func (m *EvaluationMatrix) ForLocation(ctx context.Context, locationID int64) (map[string]int, error) {
	var out map[string]int
	err := m.svc.run(ctx, "evaluation.for_location", func(ctx context.Context) error {
		return m.svc.store.View(ctx, func(tx types.ReadTx) error {
			if _, err := tx.GetLocation(ctx, locationID); err != nil {
				return err
			}
			cells, err := tx.EvaluationsForLocation(ctx, locationID)
			if err != nil {
				return err
			}
			out = foldCells(cells)
			return nil
		})
	})
	return out, err
}

// writeCells upserts scores for a location inside the caller's transaction.
// The location must already exist in tx; every criterion is checked before
// its cell is written.
func (m *EvaluationMatrix) writeCells(ctx context.Context, tx types.Tx, locationID int64, scores map[string]int) error {
	for _, id := range sortedIDs(scores) {
		if _, err := tx.GetCriterion(ctx, id); err != nil {
			return err
		}
		if err := tx.UpsertEvaluation(ctx, types.Evaluation{
			LocationID:  locationID,
			CriterionID: id,
			Value:       scores[id],
		}); err != nil {
			return err
		}
	}
	return nil
}

func foldCells(cells []types.Evaluation) map[string]int {
	out := make(map[string]int, len(cells))
	for _, c := range cells {
		out[c.CriterionID] = c.Value
	}
	return out
}
