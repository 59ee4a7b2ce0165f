package matrix

import (
	"context"
	"errors"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// LocationRepository is the sole writer of locations.
type LocationRepository struct {
	svc *Service
}

// Create validates in, stores it under a new ID and returns the stored record.
func (r *LocationRepository) Create(ctx context.Context, in types.NewLocation) (types.Location, error) {
	var out types.Location
	err := r.svc.run(ctx, "location.create", func(ctx context.Context) error {
		if err := validateNewLocation(in); err != nil {
			return err
		}
		return r.svc.store.Update(ctx, func(tx types.Tx) error {
			id, err := tx.InsertLocation(ctx, in)
			if err != nil {
				return err
			}
			out, err = tx.GetLocation(ctx, id)
			return err
		})
	})
	if err != nil {
		return types.Location{}, err
	}
	r.svc.logger.DebugContext(ctx, "location created", "id", out.ID)
	return out, nil
}

// CreateWithScores creates a location and records its initial scores in the
// same transaction, returning the flat view. Every criterion in scores must
// exist; otherwise nothing is written.
func (r *LocationRepository) CreateWithScores(ctx context.Context, in types.NewLocation, scores map[string]int) (types.LocationView, error) {
	var out types.LocationView
	err := r.svc.run(ctx, "location.create_scored", func(ctx context.Context) error {
		if err := validateNewLocation(in); err != nil {
			return err
		}
		if err := validateScores(scores, r.svc.limits); err != nil {
			return err
		}
		return r.svc.store.Update(ctx, func(tx types.Tx) error {
			id, err := tx.InsertLocation(ctx, in)
			if err != nil {
				return err
			}
			if err := r.svc.Evaluations.writeCells(ctx, tx, id, scores); err != nil {
				return err
			}
			out, err = readLocationView(ctx, tx, id)
			return err
		})
	})
	if err != nil {
		return types.LocationView{}, err
	}
	r.svc.logger.DebugContext(ctx, "location created", "id", out.ID, "scores", len(scores))
	return out, nil
}

// Get returns the location with id.
func (r *LocationRepository) Get(ctx context.Context, id int64) (types.Location, error) {
	var out types.Location
	err := r.svc.run(ctx, "location.get", func(ctx context.Context) error {
		return r.svc.store.View(ctx, func(tx types.ReadTx) error {
			var err error
			out, err = tx.GetLocation(ctx, id)
			return err
		})
	})
	return out, err
}

// List returns every location ordered by ID.
func (r *LocationRepository) List(ctx context.Context) ([]types.Location, error) {
	var out []types.Location
	err := r.svc.run(ctx, "location.list", func(ctx context.Context) error {
		return r.svc.store.View(ctx, func(tx types.ReadTx) error {
			var err error
			out, err = tx.ListLocations(ctx)
			return err
		})
	})
	return out, err
}

// Update applies the present fields of changes and returns the re-read record.
func (r *LocationRepository) Update(ctx context.Context, id int64, changes types.LocationChanges) (types.Location, error) {
	var out types.Location
	err := r.svc.run(ctx, "location.update", func(ctx context.Context) error {
		plan, err := PlanLocationUpdate(changes)
		if err != nil {
			return err
		}
		return r.svc.store.Update(ctx, func(tx types.Tx) error {
			if err := tx.UpdateLocation(ctx, id, plan.Changes); err != nil {
				return err
			}
			out, err = tx.GetLocation(ctx, id)
			return err
		})
	})
	if err != nil {
		return types.Location{}, err
	}
	r.svc.logger.DebugContext(ctx, "location updated", "id", id)
	return out, nil
}

// UpdateWithScores applies the present fields of changes and upserts scores
// in one transaction, then returns the flat view read in that transaction.
// Scores not named are kept. With no field and no score it fails with
// ErrNoOp.
func (r *LocationRepository) UpdateWithScores(ctx context.Context, id int64, changes types.LocationChanges, scores map[string]int) (types.LocationView, error) {
	var out types.LocationView
	err := r.svc.run(ctx, "location.update_scored", func(ctx context.Context) error {
		plan, err := PlanLocationUpdate(changes)
		switch {
		case errors.Is(err, types.ErrNoOp) && len(scores) > 0:
			plan = LocationPlan{}
		case err != nil:
			return err
		}
		if err := validateScores(scores, r.svc.limits); err != nil {
			return err
		}
		return r.svc.store.Update(ctx, func(tx types.Tx) error {
			if len(plan.Fields) > 0 {
				if err := tx.UpdateLocation(ctx, id, plan.Changes); err != nil {
					return err
				}
			} else if _, err := tx.GetLocation(ctx, id); err != nil {
				return err
			}
			if err := r.svc.Evaluations.writeCells(ctx, tx, id, scores); err != nil {
				return err
			}
			var err error
			out, err = readLocationView(ctx, tx, id)
			return err
		})
	})
	if err != nil {
		return types.LocationView{}, err
	}
	r.svc.logger.DebugContext(ctx, "location updated", "id", id, "scores", len(scores))
	return out, nil
}

// Delete removes the location and every evaluation keyed to it in one
// transaction.
func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	var cascaded int64
	err := r.svc.run(ctx, "location.delete", func(ctx context.Context) error {
		return r.svc.store.Update(ctx, func(tx types.Tx) error {
			if _, err := tx.GetLocation(ctx, id); err != nil {
				return err
			}
			var err error
			if cascaded, err = tx.DeleteEvaluationsForLocation(ctx, id); err != nil {
				return err
			}
			return tx.DeleteLocation(ctx, id)
		})
	})
	if err != nil {
		return err
	}
	r.svc.logger.DebugContext(ctx, "location deleted", "id", id, "evaluations", cascaded)
	return nil
}

// CriterionRepository is the sole writer of criteria.
type CriterionRepository struct {
	svc *Service
}

// Create stores a criterion under its caller-chosen ID. An existing ID fails
// with ErrDuplicateIdentity.
func (r *CriterionRepository) Create(ctx context.Context, in types.Criterion) (types.Criterion, error) {
	var out types.Criterion
	err := r.svc.run(ctx, "criterion.create", func(ctx context.Context) error {
		if err := validateNewCriterion(in, r.svc.limits); err != nil {
			return err
		}
		return r.svc.store.Update(ctx, func(tx types.Tx) error {
			if err := tx.InsertCriterion(ctx, in); err != nil {
				return err
			}
			var err error
			out, err = tx.GetCriterion(ctx, in.ID)
			return err
		})
	})
	if err != nil {
		return types.Criterion{}, err
	}
	r.svc.logger.DebugContext(ctx, "criterion created", "id", out.ID)
	return out, nil
}

// Get returns the criterion with id.
func (r *CriterionRepository) Get(ctx context.Context, id string) (types.Criterion, error) {
	var out types.Criterion
	err := r.svc.run(ctx, "criterion.get", func(ctx context.Context) error {
		return r.svc.store.View(ctx, func(tx types.ReadTx) error {
			var err error
			out, err = tx.GetCriterion(ctx, id)
			return err
		})
	})
	return out, err
}

// List returns every criterion ordered by name.
func (r *CriterionRepository) List(ctx context.Context) ([]types.Criterion, error) {
	var out []types.Criterion
	err := r.svc.run(ctx, "criterion.list", func(ctx context.Context) error {
		return r.svc.store.View(ctx, func(tx types.ReadTx) error {
			var err error
			out, err = tx.ListCriteria(ctx)
			return err
		})
	})
	return out, err
}

// Update applies the present fields of changes and returns the re-read record.
func (r *CriterionRepository) Update(ctx context.Context, id string, changes types.CriterionChanges) (types.Criterion, error) {
	var out types.Criterion
	err := r.svc.run(ctx, "criterion.update", func(ctx context.Context) error {
		plan, err := PlanCriterionUpdate(changes, r.svc.limits)
		if err != nil {
			return err
		}
		return r.svc.store.Update(ctx, func(tx types.Tx) error {
			if err := tx.UpdateCriterion(ctx, id, plan.Changes); err != nil {
				return err
			}
			out, err = tx.GetCriterion(ctx, id)
			return err
		})
	})
	if err != nil {
		return types.Criterion{}, err
	}
	r.svc.logger.DebugContext(ctx, "criterion updated", "id", id)
	return out, nil
}

// Delete removes the criterion and every evaluation keyed to it in one
// transaction.
func (r *CriterionRepository) Delete(ctx context.Context, id string) error {
	var cascaded int64
	err := r.svc.run(ctx, "criterion.delete", func(ctx context.Context) error {
		return r.svc.store.Update(ctx, func(tx types.Tx) error {
			if _, err := tx.GetCriterion(ctx, id); err != nil {
				return err
			}
			var err error
			if cascaded, err = tx.DeleteEvaluationsForCriterion(ctx, id); err != nil {
				return err
			}
			return tx.DeleteCriterion(ctx, id)
		})
	})
	if err != nil {
		return err
	}
	r.svc.logger.DebugContext(ctx, "criterion deleted", "id", id, "evaluations", cascaded)
	return nil
}
