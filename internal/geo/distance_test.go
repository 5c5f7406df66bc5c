package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreatCircleMiles(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expected               float64
		tolerance              float64
	}{
		{
			name: "identical points",
			lat1: 34.05, lon1: -118.24,
			lat2: 34.05, lon2: -118.24,
			expected:  0,
			tolerance: 1e-9,
		},
		{
			name: "LA to SF",
			lat1: 34.0522, lon1: -118.2437,
			lat2: 37.7749, lon2: -122.4194,
			expected:  347.4,
			tolerance: 1.0,
		},
		{
			name: "one degree of latitude",
			lat1: 34.0, lon1: -118.0,
			lat2: 35.0, lon2: -118.0,
			expected:  69.09,
			tolerance: 0.1,
		},
		{
			name: "antimeridian neighbors",
			lat1: 0, lon1: 179.9,
			lat2: 0, lon2: -179.9,
			expected:  13.8,
			tolerance: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := GreatCircleMiles(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expected, d, tt.tolerance)
		})
	}
}

func TestGreatCircleMilesSymmetric(t *testing.T) {
	a := GreatCircleMiles(34.05, -118.24, 38.58, -121.49)
	b := GreatCircleMiles(38.58, -121.49, 34.05, -118.24)
	assert.InDelta(t, a, b, 1e-9)
	assert.Greater(t, a, 0.0)
}
