package matrix

import (
	"fmt"
	"math"
	"strings"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// Field rules shared by creation and partial updates.

func validateName(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &types.ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

func validateCoordinate(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &types.ValidationError{Field: field, Reason: "must be a finite number"}
	}
	return nil
}

// validateCriterionID requires a non-blank ID that can be addressed as a
// single URL path segment.
func validateCriterionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &types.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(id) != id {
		return &types.ValidationError{Field: "id", Reason: "must not start or end with whitespace"}
	}
	if strings.Contains(id, "/") {
		return &types.ValidationError{Field: "id", Reason: "must not contain '/'"}
	}
	return nil
}

func validateWeight(v float64, limits types.Limits) error {
	if !limits.WeightInRange(v) {
		return &types.ValidationError{
			Field:  "weight",
			Reason: fmt.Sprintf("must be within [%g, %g]", limits.WeightMin, limits.WeightMax),
		}
	}
	return nil
}

func validateType(t types.CriterionType) error {
	if !t.Valid() {
		return &types.ValidationError{
			Field:  "type",
			Reason: fmt.Sprintf("must be %q or %q", types.CriterionBenefit, types.CriterionCost),
		}
	}
	return nil
}

func validateValue(v int, limits types.Limits) error {
	if !limits.ValueInRange(v) {
		return &types.ValidationError{
			Field:  "value",
			Reason: fmt.Sprintf("must be within [%d, %d]", limits.ValueMin, limits.ValueMax),
		}
	}
	return nil
}

func validateNewLocation(in types.NewLocation) error {
	if err := validateName("name", in.Name); err != nil {
		return err
	}
	if err := validateCoordinate("latitude", in.Latitude); err != nil {
		return err
	}
	return validateCoordinate("longitude", in.Longitude)
}

func validateNewCriterion(in types.Criterion, limits types.Limits) error {
	if err := validateCriterionID(in.ID); err != nil {
		return err
	}
	if err := validateName("name", in.Name); err != nil {
		return err
	}
	if err := validateWeight(in.Weight, limits); err != nil {
		return err
	}
	return validateType(in.Type)
}
