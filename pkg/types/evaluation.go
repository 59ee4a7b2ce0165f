package types

// Evaluation is one cell of the matrix: the score a location received on a
// criterion. (LocationID, CriterionID) is unique.
type Evaluation struct {
	LocationID  int64  `json:"location_id" yaml:"location_id"`
	CriterionID string `json:"criteria_id" yaml:"criteria_id"`
	Value       int    `json:"value" yaml:"value"`
}

// EvaluationRecord is the normalized read shape: one cell joined with the
// names of both parents and the criterion type.
type EvaluationRecord struct {
	LocationID    int64         `json:"location_id"`
	CriterionID   string        `json:"criteria_id"`
	Value         int           `json:"value"`
	LocationName  string        `json:"location_name"`
	CriterionName string        `json:"criteria_name"`
	CriterionType CriterionType `json:"criteria_type"`
}
