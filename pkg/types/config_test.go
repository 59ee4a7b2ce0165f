package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	limits := DefaultLimits()
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"defaults", DefaultConfig(), nil},
		{"no driver", Config{DataDir: "/tmp/data", Limits: limits}, ErrDriverEmpty},
		{"mysql", Config{Driver: "mysql", Limits: limits}, ErrDriverUnknown},
		{"sqlite without data dir", Config{Driver: DriverSQLite, Limits: limits}, nil},
		{"memory", Config{Driver: DriverMemory, Limits: limits}, nil},
		{"postgres without dsn", Config{Driver: DriverPostgres, Limits: limits}, ErrPostgresDSNEmpty},
		{"postgres with dsn", Config{Driver: DriverPostgres, PostgresDSN: "postgres://localhost/tofico", Limits: limits}, nil},
		{"inverted value range", Config{Driver: DriverMemory, Limits: Limits{WeightMax: 1, ValueMin: 10, ValueMax: 5}}, ErrLimitsInvalid},
		{"NaN weight bound", Config{Driver: DriverMemory, Limits: Limits{WeightMin: math.NaN(), WeightMax: 1, ValueMax: 100}}, ErrLimitsInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
