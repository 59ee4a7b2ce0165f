package matrix

import (
	"context"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// ViewMaterializer builds read shapes. It never writes.
type ViewMaterializer struct {
	svc *Service
}

// Locations returns the flat view of every location, ordered by ID. Locations
// and their scores are read in the same transaction.
func (v *ViewMaterializer) Locations(ctx context.Context) ([]types.LocationView, error) {
	var out []types.LocationView
	err := v.svc.run(ctx, "view.locations", func(ctx context.Context) error {
		return v.svc.store.View(ctx, func(tx types.ReadTx) error {
			locs, err := tx.ListLocations(ctx)
			if err != nil {
				return err
			}
			records, err := tx.ListEvaluations(ctx)
			if err != nil {
				return err
			}
			out = Flatten(locs, records)
			return nil
		})
	})
	return out, err
}

// Location returns the flat view of one location.
func (v *ViewMaterializer) Location(ctx context.Context, id int64) (types.LocationView, error) {
	var out types.LocationView
	err := v.svc.run(ctx, "view.location", func(ctx context.Context) error {
		return v.svc.store.View(ctx, func(tx types.ReadTx) error {
			var err error
			out, err = readLocationView(ctx, tx, id)
			return err
		})
	})
	return out, err
}

// Contents is the whole matrix as of one transaction.
type Contents struct {
	Criteria  []types.Criterion
	Locations []types.LocationView
}

// Contents reads every criterion and the flat view of every location in one
// read transaction, so each score in Locations references a criterion in
// Criteria.
func (v *ViewMaterializer) Contents(ctx context.Context) (Contents, error) {
	var out Contents
	err := v.svc.run(ctx, "view.contents", func(ctx context.Context) error {
		return v.svc.store.View(ctx, func(tx types.ReadTx) error {
			criteria, err := tx.ListCriteria(ctx)
			if err != nil {
				return err
			}
			locs, err := tx.ListLocations(ctx)
			if err != nil {
				return err
			}
			records, err := tx.ListEvaluations(ctx)
			if err != nil {
				return err
			}
			out = Contents{Criteria: criteria, Locations: Flatten(locs, records)}
			return nil
		})
	})
	return out, err
}

// Evaluations returns the normalized view.
func (v *ViewMaterializer) Evaluations(ctx context.Context) ([]types.EvaluationRecord, error) {
	var out []types.EvaluationRecord
	err := v.svc.run(ctx, "view.evaluations", func(ctx context.Context) error {
		return v.svc.store.View(ctx, func(tx types.ReadTx) error {
			var err error
			out, err = tx.ListEvaluations(ctx)
			return err
		})
	})
	return out, err
}

// Flatten projects normalized records onto locations. Every location gets a
// non-nil Criteria map; records for unknown locations are dropped.
func Flatten(locs []types.Location, records []types.EvaluationRecord) []types.LocationView {
	out := make([]types.LocationView, len(locs))
	index := make(map[int64]int, len(locs))
	for i, loc := range locs {
		out[i] = types.LocationView{Location: loc, Criteria: map[string]int{}}
		index[loc.ID] = i
	}
	for _, rec := range records {
		if i, ok := index[rec.LocationID]; ok {
			out[i].Criteria[rec.CriterionID] = rec.Value
		}
	}
	return out
}

func readLocationView(ctx context.Context, tx types.ReadTx, id int64) (types.LocationView, error) {
	loc, err := tx.GetLocation(ctx, id)
	if err != nil {
		return types.LocationView{}, err
	}
	cells, err := tx.EvaluationsForLocation(ctx, id)
	if err != nil {
		return types.LocationView{}, err
	}
	return types.LocationView{Location: loc, Criteria: foldCells(cells)}, nil
}
