package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericScan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    float64
		wantErr bool
	}{
		{name: "nil scans as zero", src: nil, want: 0},
		{name: "float64", src: 0.35, want: 0.35},
		{name: "int64", src: int64(42), want: 42},
		{name: "decimal text", src: "-6.2088000", want: -6.2088},
		{name: "decimal bytes", src: []byte("106.845600"), want: 106.8456},
		{name: "blank text scans as zero", src: "  ", want: 0},
		{name: "garbage text fails", src: "north", wantErr: true},
		{name: "unsupported type fails", src: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Numeric
			err := n.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, n.Float64(), 1e-9)
		})
	}
}

func TestLimits(t *testing.T) {
	l := DefaultLimits()

	assert.True(t, l.WeightInRange(0))
	assert.True(t, l.WeightInRange(1))
	assert.False(t, l.WeightInRange(1.0001))
	assert.False(t, l.WeightInRange(-0.1))

	assert.True(t, l.ValueInRange(0))
	assert.True(t, l.ValueInRange(100))
	assert.False(t, l.ValueInRange(101))
	assert.False(t, l.ValueInRange(-1))

	custom := Limits{WeightMin: 0, WeightMax: 10, ValueMin: 1, ValueMax: 5}
	require.NoError(t, custom.Validate())
	assert.True(t, custom.WeightInRange(7.5))
	assert.False(t, custom.ValueInRange(0))
}
