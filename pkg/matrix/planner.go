package matrix

import (
	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// LocationPlan is a validated partial update of a location.
type LocationPlan struct {
	Changes types.LocationChanges
	// Fields lists the present fields in table order.
	Fields []string
}

// CriterionPlan is a validated partial update of a criterion.
type CriterionPlan struct {
	Changes types.CriterionChanges
	Fields  []string
}

type locationField struct {
	name     string
	present  func(types.LocationChanges) bool
	validate func(types.LocationChanges) error
}

var locationFields = []locationField{
	{
		name:     "name",
		present:  func(c types.LocationChanges) bool { return c.Name != nil },
		validate: func(c types.LocationChanges) error { return validateName("name", *c.Name) },
	},
	{
		name:     "address",
		present:  func(c types.LocationChanges) bool { return c.Address != nil },
		validate: func(types.LocationChanges) error { return nil },
	},
	{
		name:     "latitude",
		present:  func(c types.LocationChanges) bool { return c.Latitude != nil },
		validate: func(c types.LocationChanges) error { return validateCoordinate("latitude", *c.Latitude) },
	},
	{
		name:     "longitude",
		present:  func(c types.LocationChanges) bool { return c.Longitude != nil },
		validate: func(c types.LocationChanges) error { return validateCoordinate("longitude", *c.Longitude) },
	},
}

type criterionField struct {
	name     string
	present  func(types.CriterionChanges) bool
	validate func(types.CriterionChanges, types.Limits) error
}

var criterionFields = []criterionField{
	{
		name:     "name",
		present:  func(c types.CriterionChanges) bool { return c.Name != nil },
		validate: func(c types.CriterionChanges, _ types.Limits) error { return validateName("name", *c.Name) },
	},
	{
		name:     "weight",
		present:  func(c types.CriterionChanges) bool { return c.Weight != nil },
		validate: func(c types.CriterionChanges, l types.Limits) error { return validateWeight(*c.Weight, l) },
	},
	{
		name:     "type",
		present:  func(c types.CriterionChanges) bool { return c.Type != nil },
		validate: func(c types.CriterionChanges, _ types.Limits) error { return validateType(*c.Type) },
	},
}

// PlanLocationUpdate validates every present field. It returns ErrNoOp when
// no field is present and the first *ValidationError otherwise; in both cases
// nothing may be written.
func PlanLocationUpdate(changes types.LocationChanges) (LocationPlan, error) {
	plan := LocationPlan{Changes: changes}
	for _, f := range locationFields {
		if !f.present(changes) {
			continue
		}
		if err := f.validate(changes); err != nil {
			return LocationPlan{}, err
		}
		plan.Fields = append(plan.Fields, f.name)
	}
	if len(plan.Fields) == 0 {
		return LocationPlan{}, types.ErrNoOp
	}
	return plan, nil
}

// PlanCriterionUpdate is PlanLocationUpdate for criteria. Weight is checked
// against limits.
func PlanCriterionUpdate(changes types.CriterionChanges, limits types.Limits) (CriterionPlan, error) {
	plan := CriterionPlan{Changes: changes}
	for _, f := range criterionFields {
		if !f.present(changes) {
			continue
		}
		if err := f.validate(changes, limits); err != nil {
			return CriterionPlan{}, err
		}
		plan.Fields = append(plan.Fields, f.name)
	}
	if len(plan.Fields) == 0 {
		return CriterionPlan{}, types.ErrNoOp
	}
	return plan, nil
}
