package types

import (
	"errors"
	"math"
)

// Default numeric domains.
const (
	DefaultWeightMin = 0.0
	DefaultWeightMax = 1.0
	DefaultValueMin  = 0
	DefaultValueMax  = 100
)

// ErrLimitsInvalid is returned by Limits.Validate for an empty or inverted range.
var ErrLimitsInvalid = errors.New("limits must satisfy min <= max")

// Limits holds the inclusive ranges for criterion weights and evaluation
// values.
type Limits struct {
	WeightMin float64 `json:"weight_min" yaml:"weight_min" mapstructure:"weight_min" env:"WEIGHT_MIN" envDefault:"0"`
	WeightMax float64 `json:"weight_max" yaml:"weight_max" mapstructure:"weight_max" env:"WEIGHT_MAX" envDefault:"1"`
	ValueMin  int     `json:"value_min" yaml:"value_min" mapstructure:"value_min" env:"VALUE_MIN" envDefault:"0"`
	ValueMax  int     `json:"value_max" yaml:"value_max" mapstructure:"value_max" env:"VALUE_MAX" envDefault:"100"`
}

// DefaultLimits returns weight in [0,1] and value in [0,100].
func DefaultLimits() Limits {
	return Limits{
		WeightMin: DefaultWeightMin,
		WeightMax: DefaultWeightMax,
		ValueMin:  DefaultValueMin,
		ValueMax:  DefaultValueMax,
	}
}

// Validate checks that both ranges are finite and non-inverted.
func (l Limits) Validate() error {
	if math.IsNaN(l.WeightMin) || math.IsNaN(l.WeightMax) ||
		math.IsInf(l.WeightMin, 0) || math.IsInf(l.WeightMax, 0) {
		return ErrLimitsInvalid
	}
	if l.WeightMin > l.WeightMax || l.ValueMin > l.ValueMax {
		return ErrLimitsInvalid
	}
	return nil
}

// WeightInRange reports whether w lies in [WeightMin, WeightMax].
func (l Limits) WeightInRange(w float64) bool {
	return !math.IsNaN(w) && w >= l.WeightMin && w <= l.WeightMax
}

// ValueInRange reports whether v lies in [ValueMin, ValueMax].
func (l Limits) ValueInRange(v int) bool {
	return v >= l.ValueMin && v <= l.ValueMax
}
