package matrix

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/ficrammanifur/tofico-analyzer-backend/pkg/types"
)

// RoundScore converts a fractional score to the integer scale. Halves round
// away from zero. The result still has to pass the value range check.
func RoundScore(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &types.ValidationError{Field: "value", Reason: "must be a finite number"}
	}
	r := math.Round(v)
	if r > math.MaxInt32 || r < math.MinInt32 {
		return 0, &types.ValidationError{Field: "value", Reason: "out of range"}
	}
	return int(r), nil
}

// RoundScores rounds every score of a location's criteria map. A nil map
// yields nil.
func RoundScores(in map[string]float64) (map[string]int, error) {
	if in == nil {
		return nil, nil
	}
	out := make(map[string]int, len(in))
	for _, id := range sortedIDs(in) {
		v, err := RoundScore(in[id])
		if err != nil {
			return nil, scoreError(id, err)
		}
		out[id] = v
	}
	return out, nil
}

// validateScores applies the value range to every score, naming the first
// offending criterion in ID order.
func validateScores(scores map[string]int, limits types.Limits) error {
	for _, id := range sortedIDs(scores) {
		if err := validateValue(scores[id], limits); err != nil {
			return scoreError(id, err)
		}
	}
	return nil
}

func scoreError(id string, err error) error {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		return &types.ValidationError{Field: fmt.Sprintf("criteria.%s", id), Reason: ve.Reason}
	}
	return err
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
