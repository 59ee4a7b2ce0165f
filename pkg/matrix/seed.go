package matrix

import (
	"context"
	"errors"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// SeedReport counts what Seed did.
type SeedReport struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// builtInCriteria is the starter set for a new deployment. Weights sum to 1.
var builtInCriteria = []types.Criterion{
	{ID: "C1", Name: "Aksesibilitas", Weight: 0.25, Type: types.CriterionBenefit},
	{ID: "C2", Name: "Biaya Sewa", Weight: 0.25, Type: types.CriterionCost},
	{ID: "C3", Name: "Kepadatan Penduduk", Weight: 0.20, Type: types.CriterionBenefit},
	{ID: "C4", Name: "Jumlah Kompetitor", Weight: 0.15, Type: types.CriterionCost},
	{ID: "C5", Name: "Keamanan", Weight: 0.15, Type: types.CriterionBenefit},
}

// DefaultCriteria returns a copy of the built-in criteria set.
func DefaultCriteria() []types.Criterion {
	return append([]types.Criterion(nil), builtInCriteria...)
}

// Seed creates every criterion of set whose ID is still free, in one
// transaction. Existing criteria are left untouched and counted as skipped,
// so seeding twice is harmless.
func (r *CriterionRepository) Seed(ctx context.Context, set []types.Criterion) (SeedReport, error) {
	var report SeedReport
	err := r.svc.run(ctx, "criterion.seed", func(ctx context.Context) error {
		for _, c := range set {
			if err := validateNewCriterion(c, r.svc.limits); err != nil {
				return err
			}
		}
		return r.svc.store.Update(ctx, func(tx types.Tx) error {
			var rep SeedReport
			for _, c := range set {
				_, err := tx.GetCriterion(ctx, c.ID)
				switch {
				case err == nil:
					rep.Skipped++
					continue
				case !errors.Is(err, types.ErrNotFound):
					return err
				}
				if err := tx.InsertCriterion(ctx, c); err != nil {
					return err
				}
				rep.Created++
			}
			report = rep
			return nil
		})
	})
	if err != nil {
		return SeedReport{}, err
	}
	r.svc.logger.DebugContext(ctx, "criteria seeded", "created", report.Created, "skipped", report.Skipped)
	return report, nil
}
