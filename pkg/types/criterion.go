package types

// CriterionType tells whether a higher score is better (benefit) or worse
// (cost).
type CriterionType string

// Criterion types.
const (
	CriterionBenefit CriterionType = "benefit"
	CriterionCost    CriterionType = "cost"
)

// Valid reports whether t is one of the known criterion types.
func (t CriterionType) Valid() bool {
	return t == CriterionBenefit || t == CriterionCost
}

// Criterion is a weighted scoring dimension. Its ID is chosen by the caller
// and cannot change after creation.
type Criterion struct {
	ID     string        `json:"id" yaml:"id"`
	Name   string        `json:"name" yaml:"name"`
	Weight float64       `json:"weight" yaml:"weight"`
	Type   CriterionType `json:"type" yaml:"type"`
}

// CriterionChanges is a partial update. A nil field is left untouched; the ID
// is not updatable.
type CriterionChanges struct {
	Name   *string        `json:"name,omitempty"`
	Weight *float64       `json:"weight,omitempty"`
	Type   *CriterionType `json:"type,omitempty"`
}
