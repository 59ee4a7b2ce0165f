package matrix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

func nan() float64 { return math.NaN() }
func inf() float64 { return math.Inf(1) }

func ptr[T any](v T) *T { return &v }

func TestPlanLocationUpdate(t *testing.T) {
	tests := []struct {
		name       string
		changes    types.LocationChanges
		wantFields []string
		wantErr    error
		errField   string
	}{
		{
			name:    "empty changeset is a no-op",
			wantErr: types.ErrNoOp,
		},
		{
			name:       "single field",
			changes:    types.LocationChanges{Address: ptr("Jl. Merdeka 1")},
			wantFields: []string{"address"},
		},
		{
			name: "fields in table order",
			changes: types.LocationChanges{
				Longitude: ptr(106.8),
				Name:      ptr("Kemang"),
				Latitude:  ptr(-6.26),
			},
			wantFields: []string{"name", "latitude", "longitude"},
		},
		{
			name:       "empty address is allowed",
			changes:    types.LocationChanges{Address: ptr("")},
			wantFields: []string{"address"},
		},
		{
			name:     "blank name rejected",
			changes:  types.LocationChanges{Name: ptr(" "), Address: ptr("ok")},
			wantErr:  types.ErrValidation,
			errField: "name",
		},
		{
			name:     "NaN latitude rejected",
			changes:  types.LocationChanges{Latitude: ptr(nan())},
			wantErr:  types.ErrValidation,
			errField: "latitude",
		},
		{
			name:     "infinite longitude rejected",
			changes:  types.LocationChanges{Longitude: ptr(inf())},
			wantErr:  types.ErrValidation,
			errField: "longitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanLocationUpdate(tt.changes)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				if tt.errField != "" {
					var ve *types.ValidationError
					require.ErrorAs(t, err, &ve)
					assert.Equal(t, tt.errField, ve.Field)
				}
				assert.Empty(t, plan.Fields)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFields, plan.Fields)
			assert.Equal(t, tt.changes, plan.Changes)
		})
	}
}

func TestPlanCriterionUpdate(t *testing.T) {
	limits := types.DefaultLimits()
	cost := types.CriterionCost
	bogus := types.CriterionType("other")

	tests := []struct {
		name       string
		changes    types.CriterionChanges
		wantFields []string
		wantErr    error
		errField   string
	}{
		{name: "empty changeset is a no-op", wantErr: types.ErrNoOp},
		{
			name:       "weight at upper bound",
			changes:    types.CriterionChanges{Weight: ptr(1.0)},
			wantFields: []string{"weight"},
		},
		{
			name:       "all fields",
			changes:    types.CriterionChanges{Type: &cost, Weight: ptr(0.0), Name: ptr("Biaya")},
			wantFields: []string{"name", "weight", "type"},
		},
		{
			name:     "weight above range",
			changes:  types.CriterionChanges{Weight: ptr(1.2)},
			wantErr:  types.ErrValidation,
			errField: "weight",
		},
		{
			name:     "NaN weight",
			changes:  types.CriterionChanges{Weight: ptr(nan())},
			wantErr:  types.ErrValidation,
			errField: "weight",
		},
		{
			name:     "unknown type with valid name still rejected",
			changes:  types.CriterionChanges{Name: ptr("ok"), Type: &bogus},
			wantErr:  types.ErrValidation,
			errField: "type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanCriterionUpdate(tt.changes, limits)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				if tt.errField != "" {
					var ve *types.ValidationError
					require.ErrorAs(t, err, &ve)
					assert.Equal(t, tt.errField, ve.Field)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFields, plan.Fields)
		})
	}
}

func TestFlatten(t *testing.T) {
	locs := []types.Location{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	records := []types.EvaluationRecord{
		{LocationID: 2, CriterionID: "C1", Value: 40},
		{LocationID: 2, CriterionID: "C2", Value: 90},
		{LocationID: 9, CriterionID: "C1", Value: 10},
	}

	views := Flatten(locs, records)
	require.Len(t, views, 2)
	assert.Equal(t, map[string]int{}, views[0].Criteria)
	assert.Equal(t, map[string]int{"C1": 40, "C2": 90}, views[1].Criteria)
}
